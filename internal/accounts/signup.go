package accounts

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lexconsult/marketplace/internal/backend"
	"github.com/lexconsult/marketplace/pkg/logging"
)

const (
	RoleClient = "client"
	RoleLawyer = "lawyer"
)

var (
	frenchPhonePattern = regexp.MustCompile(`^(?:\+33\s?|0)[1-9](?:[\s.-]?\d{2}){4}$`)
	barNumberPattern   = regexp.MustCompile(`^[A-Za-z]{0,2}\d{2,6}$`)
)

// ClientSignup is the client registration form.
type ClientSignup struct {
	FirstName            string `json:"first_name" validate:"required,max=100"`
	LastName             string `json:"last_name" validate:"required,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone" validate:"omitempty,frphone"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	AcceptTerms          bool   `json:"accept_terms" validate:"eq=true"`
}

// LawyerSignup is the lawyer registration form. Lawyers must give their bar
// registration and a reachable phone number.
type LawyerSignup struct {
	FirstName            string `json:"first_name" validate:"required,max=100"`
	LastName             string `json:"last_name" validate:"required,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone" validate:"required,frphone"`
	BarNumber            string `json:"bar_number" validate:"required,barnumber"`
	BarCity              string `json:"bar_city" validate:"required,max=100"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	AcceptTerms          bool   `json:"accept_terms" validate:"eq=true"`
}

// FieldErrors maps a form field (its JSON name) to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Registrar creates accounts on the backend.
type Registrar interface {
	Register(ctx context.Context, req backend.RegisterRequest) (*backend.RegisterResponse, error)
}

// Signup validates registration forms and forwards valid ones.
type Signup struct {
	validate  *validator.Validate
	registrar Registrar
	logger    *logging.Logger
}

// NewSignup creates a Signup.
func NewSignup(registrar Registrar, logger *logging.Logger) *Signup {
	if registrar == nil {
		panic("accounts: registrar required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Signup{validate: newValidator(), registrar: registrar, logger: logger}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	mustRegisterValidation(v, "frphone", func(fl validator.FieldLevel) bool {
		return frenchPhonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegisterValidation(v, "barnumber", func(fl validator.FieldLevel) bool {
		return barNumberPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// mustRegisterValidation panics when tag cannot be registered, like regexp.MustCompile.
func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("accounts: register %q validation: %v", tag, err))
	}
}

// ValidateClient returns nil when the form may be submitted.
func (s *Signup) ValidateClient(in ClientSignup) FieldErrors {
	return s.check(in)
}

// ValidateLawyer returns nil when the form may be submitted.
func (s *Signup) ValidateLawyer(in LawyerSignup) FieldErrors {
	return s.check(in)
}

// RegisterClient validates and forwards a client signup. Invalid forms
// return FieldErrors and reach no backend.
func (s *Signup) RegisterClient(ctx context.Context, in ClientSignup) (*backend.RegisterResponse, error) {
	if fe := s.ValidateClient(in); fe != nil {
		return nil, fe
	}
	return s.register(ctx, backend.RegisterRequest{
		Role:      RoleClient,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     normalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Password:  in.Password,
	})
}

// RegisterLawyer validates and forwards a lawyer signup.
func (s *Signup) RegisterLawyer(ctx context.Context, in LawyerSignup) (*backend.RegisterResponse, error) {
	if fe := s.ValidateLawyer(in); fe != nil {
		return nil, fe
	}
	return s.register(ctx, backend.RegisterRequest{
		Role:      RoleLawyer,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     normalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Password:  in.Password,
		BarNumber: strings.ToUpper(strings.TrimSpace(in.BarNumber)),
		BarCity:   strings.TrimSpace(in.BarCity),
	})
}

func (s *Signup) register(ctx context.Context, req backend.RegisterRequest) (*backend.RegisterResponse, error) {
	ctx, span := accountsTracer.Start(ctx, "accounts.register")
	defer span.End()

	resp, err := s.registrar.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("signup rejected by backend", "role", req.Role, "error", err)
		return nil, err
	}
	s.logger.Info("signup forwarded", "role", req.Role)
	return resp, nil
}

func (s *Signup) check(form any) FieldErrors {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fieldMessage(fe)
		}
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Ce champ est obligatoire."
	case "email":
		return "Adresse e-mail invalide."
	case "min":
		return fmt.Sprintf("Doit contenir au moins %s caractères.", fe.Param())
	case "max":
		return fmt.Sprintf("Ne doit pas dépasser %s caractères.", fe.Param())
	case "eqfield":
		return "Les mots de passe ne correspondent pas."
	case "frphone":
		return "Numéro de téléphone invalide."
	case "barnumber":
		return "Numéro de toque invalide."
	case "eq":
		return "Vous devez accepter les conditions d'utilisation."
	default:
		return "Valeur invalide."
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
