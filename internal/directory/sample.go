package directory

// SampleLawyers is the demo directory shown when no database is configured.
func SampleLawyers() []Lawyer {
	return []Lawyer{
		{ID: "1", FirstName: "Jean", LastName: "Dupont", City: "Paris", Specialties: []string{"Droit des affaires", "Droit commercial"}, Rating: 4.8, ReviewCount: 127, ExperienceYears: 15},
		{ID: "2", FirstName: "Marie", LastName: "Martin", City: "Lyon", Specialties: []string{"Droit de la famille", "Droit pénal"}, Rating: 4.9, ReviewCount: 98, ExperienceYears: 12, AcceptsLegalAid: true},
		{ID: "3", FirstName: "Pierre", LastName: "Bernard", City: "Paris", Specialties: []string{"Droit du travail"}, Rating: 4.3, ReviewCount: 64, ExperienceYears: 8, AcceptsLegalAid: true},
		{ID: "4", FirstName: "Sophie", LastName: "Petit", City: "Marseille", Specialties: []string{"Droit immobilier"}, Rating: 4.7, ReviewCount: 82, ExperienceYears: 10},
		{ID: "5", FirstName: "Lucas", LastName: "Moreau", City: "Bordeaux", Specialties: []string{"Droit pénal", "Droit routier"}, Rating: 4.6, ReviewCount: 45, ExperienceYears: 7, AcceptsLegalAid: true},
		{ID: "6", FirstName: "Camille", LastName: "Leroy", City: "Paris", Specialties: []string{"Fiscalité", "Successions"}, Rating: 4.9, ReviewCount: 150, ExperienceYears: 20},
		{ID: "7", FirstName: "Antoine", LastName: "Roux", City: "Toulouse", Specialties: []string{"Droit de la santé"}, Rating: 4.4, ReviewCount: 33, ExperienceYears: 5, AcceptsLegalAid: true},
		{ID: "8", FirstName: "Julie", LastName: "Fournier", City: "Lille", Specialties: []string{"Droit des étrangers", "Droit de la famille"}, Rating: 4.8, ReviewCount: 71, ExperienceYears: 9, AcceptsLegalAid: true},
	}
}
