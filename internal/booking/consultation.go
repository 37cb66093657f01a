package booking

import (
	"fmt"
	"strings"
)

// ConsultationType is the modality of a booked session.
type ConsultationType string

const (
	ConsultationCabinet   ConsultationType = "cabinet"
	ConsultationVisio     ConsultationType = "visio"
	ConsultationTelephone ConsultationType = "telephone"
)

// Descriptor is the fixed presentation and pricing of a consultation type.
type Descriptor struct {
	Type            ConsultationType `json:"type"`
	Icon            string           `json:"icon"`
	Title           string           `json:"title"`
	DurationMinutes int              `json:"duration_minutes"`
	PriceEUR        int              `json:"price_eur"`
	Description     string           `json:"description"`
}

var descriptors = []Descriptor{
	{
		Type:            ConsultationCabinet,
		Icon:            "building",
		Title:           "Consultation au cabinet",
		DurationMinutes: 60,
		PriceEUR:        80,
		Description:     "Rendez-vous en personne au cabinet de l'avocat.",
	},
	{
		Type:            ConsultationVisio,
		Icon:            "video",
		Title:           "Consultation en visio",
		DurationMinutes: 45,
		PriceEUR:        60,
		Description:     "Échange par vidéo, le lien est envoyé après la réservation.",
	},
	{
		Type:            ConsultationTelephone,
		Icon:            "phone",
		Title:           "Consultation téléphonique",
		DurationMinutes: 30,
		PriceEUR:        45,
		Description:     "L'avocat vous appelle à l'heure convenue.",
	},
}

// ParseConsultationType validates a raw value such as a query parameter.
func ParseConsultationType(raw string) (ConsultationType, error) {
	t := ConsultationType(strings.ToLower(strings.TrimSpace(raw)))
	if _, err := LookupDescriptor(t); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidConsultationType, raw)
	}
	return t, nil
}

// LookupDescriptor returns the descriptor for t.
func LookupDescriptor(t ConsultationType) (Descriptor, error) {
	for _, d := range descriptors {
		if d.Type == t {
			return d, nil
		}
	}
	return Descriptor{}, ErrInvalidConsultationType
}

// Descriptors lists every consultation type in display order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// ConsultationTypes lists the accepted raw values.
func ConsultationTypes() []string {
	out := make([]string, len(descriptors))
	for i, d := range descriptors {
		out[i] = string(d.Type)
	}
	return out
}
