package services

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/domain/providers"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
)

type synonymGroup struct {
	key      string
	synonyms []string
}

// searchSynonyms is walked in order, so expanded terms come out in a stable order
var searchSynonyms = []synonymGroup{
	{"docteur", []string{"médecin", "dr", "doc", "praticien", "professionnel"}},
	{"médecin", []string{"docteur", "dr", "doc", "praticien", "professionnel"}},
	{"pharmacie", []string{"pharma", "médicament", "officine"}},
	{"centre", []string{"clinique", "hôpital", "centre médical", "établissement"}},
	{"laboratoire", []string{"labo", "analyse", "biologie", "prélèvement"}},
	{"infirmerie", []string{"infirmier", "soin", "cabinet infirmier"}},
	{"dentiste", []string{"dentaire", "orthodontiste", "chirurgien dentaire"}},
	{"kiné", []string{"kinésithérapeute", "physiothérapeute", "rééducation"}},
	{"cardiologue", []string{"cœur", "cardiologie"}},
	{"dermatologue", []string{"peau", "dermatologie"}},
	{"psychiatre", []string{"psychologue", "mental", "psychiatrie"}},
	{"gynécologue", []string{"femme", "gynécologie"}},
	{"pédiatre", []string{"enfant", "pédiatrie"}},
	{"ophtalmologue", []string{"yeux", "vue", "ophtalmologie"}},
	{"urgence", []string{"urgences", "emergency", "secours"}},
}

// genericDoctorTerms widen every query of two characters or more
var genericDoctorTerms = []string{"médecin", "docteur", "dr"}

// ExpandSearchTerms turns a free-text query into the keyword list sent to the
// doctor directory. The lowercased query comes first, followed by every
// synonym group whose key contains it, is contained in it, or shares its
// first three letters. A blank query expands to nothing.
func ExpandSearchTerms(query string) []string {
	clean := strings.ToLower(strings.TrimSpace(query))
	if clean == "" {
		return []string{}
	}

	terms := []string{clean}
	seen := map[string]bool{clean: true}
	add := func(words ...string) {
		for _, w := range words {
			if !seen[w] {
				seen[w] = true
				terms = append(terms, w)
			}
		}
	}
	addGroup := func(g synonymGroup) {
		add(g.key)
		add(g.synonyms...)
	}

	for _, g := range searchSynonyms {
		if strings.Contains(clean, g.key) || strings.Contains(g.key, clean) {
			addGroup(g)
		}
	}

	length := utf8.RuneCountInString(clean)
	if length >= 3 {
		for _, g := range searchSynonyms {
			if strings.HasPrefix(clean, firstRunes(g.key, 3)) {
				addGroup(g)
			}
		}
	}
	if length >= 2 {
		add(genericDoctorTerms...)
	}
	return terms
}

func firstRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// FilterByBounds keeps the doctors located inside bounds. Doctors without
// coordinates are dropped; nil bounds keep everyone.
func FilterByBounds(doctors []entities.Doctor, bounds *entities.MapBounds) []entities.Doctor {
	if bounds == nil {
		return doctors
	}
	inside := make([]entities.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d.Located() && bounds.Contains(*d.Latitude, *d.Longitude) {
			inside = append(inside, d)
		}
	}
	return inside
}

// DoctorSearchResult carries the full list for the sidebar and the subset
// that fits the visible map
type DoctorSearchResult struct {
	Terms      []string          `json:"terms"`
	Doctors    []entities.Doctor `json:"doctors"`
	MapDoctors []entities.Doctor `json:"map_doctors"`
}

// DoctorSearchService searches registered doctors on the booking backend
type DoctorSearchService struct {
	directory providers.DoctorDirectory
}

// NewDoctorSearchService creates a new doctor search service
func NewDoctorSearchService(directory providers.DoctorDirectory) *DoctorSearchService {
	return &DoctorSearchService{directory: directory}
}

// Search expands the query, asks the directory once with every term and
// splits the answer by bounds. Directory failures are logged and yield empty
// lists.
func (s *DoctorSearchService) Search(ctx context.Context, query string, bounds *entities.MapBounds) DoctorSearchResult {
	result := DoctorSearchResult{
		Terms:      ExpandSearchTerms(query),
		Doctors:    []entities.Doctor{},
		MapDoctors: []entities.Doctor{},
	}
	if len(result.Terms) == 0 {
		return result
	}

	logger := observability.LoggerFromContext(ctx)
	records, err := s.directory.SearchDoctors(ctx, strings.Join(result.Terms, " "))
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("doctor search failed")
		return result
	}

	doctors, skipped := decodeDoctors(records)
	if skipped > 0 {
		logger.Warn().Int("skipped", skipped).Msg("ignored malformed doctor records")
	}
	result.Doctors = doctors
	result.MapDoctors = FilterByBounds(doctors, bounds)
	return result
}

func decodeDoctors(records []json.RawMessage) (doctors []entities.Doctor, skipped int) {
	doctors = make([]entities.Doctor, 0, len(records))
	for _, raw := range records {
		d, err := entities.DoctorFromRecord(raw)
		if err != nil {
			skipped++
			continue
		}
		doctors = append(doctors, d)
	}
	return doctors, skipped
}
