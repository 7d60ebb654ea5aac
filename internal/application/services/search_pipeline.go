package services

import (
	"context"
	"strings"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/domain/providers"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
	apperrors "github.com/santeconnect/careconnect/pkg/errors"
)

// Stage names, also used as metric attributes
const (
	StagePrimaryQuery    = "primary_query"
	StageTextFilter      = "text_filter"
	StageBroadQuery      = "broad_query"
	StageRadiusExpansion = "radius_expansion"
)

// searchRequest is the caller's search, resolved against defaults
type searchRequest struct {
	origin    providers.Coordinates
	radius    int
	text      string
	specialty string
}

// searchState is the working element set handed from stage to stage
type searchState struct {
	elements []providers.GeoElement
	radius   int
}

// fallbackStage is one step of the search cascade. A stage runs only when
// applies holds for the current state; its candidate replaces the current state
// when accept holds. An attempt error ends the search with no results when fatal
// reports true, otherwise the stage is skipped.
type fallbackStage struct {
	name    string
	applies func(req searchRequest, cur searchState) bool
	attempt func(ctx context.Context, req searchRequest, cur searchState) (searchState, error)
	accept  func(cur, candidate searchState) bool
	fatal   func(err error) bool
}

func always(searchState, searchState) bool { return true }

func alwaysFatal(error) bool { return true }

// statusErrorsRecoverable treats an upstream HTTP status as "no candidate" while
// transport and decoding failures stay fatal.
func statusErrorsRecoverable(err error) bool {
	appErr, ok := apperrors.As(err)
	return !ok || appErr.StatusCode == 0
}

func (s *GeoSearchService) stages() []fallbackStage {
	return []fallbackStage{
		{
			name: StagePrimaryQuery,
			attempt: func(ctx context.Context, req searchRequest, cur searchState) (searchState, error) {
				elements, err := s.query(ctx, req.origin, cur.radius, req.specialty)
				return searchState{elements: elements, radius: cur.radius}, err
			},
			accept: always,
			fatal:  alwaysFatal,
		},
		{
			name: StageTextFilter,
			applies: func(req searchRequest, cur searchState) bool {
				return req.text != "" && len(cur.elements) > 0
			},
			attempt: func(_ context.Context, req searchRequest, cur searchState) (searchState, error) {
				return searchState{elements: filterElementsByText(cur.elements, req.text), radius: cur.radius}, nil
			},
			accept: always,
		},
		{
			name: StageBroadQuery,
			applies: func(req searchRequest, cur searchState) bool {
				return req.text != "" && len(cur.elements) == 0
			},
			attempt: func(ctx context.Context, req searchRequest, cur searchState) (searchState, error) {
				elements, err := s.query(ctx, req.origin, cur.radius, "")
				if err != nil {
					return cur, err
				}
				return searchState{elements: filterElementsByText(elements, req.text), radius: cur.radius}, nil
			},
			accept: always,
			fatal:  statusErrorsRecoverable,
		},
		{
			name: StageRadiusExpansion,
			applies: func(_ searchRequest, cur searchState) bool {
				return len(cur.elements) < s.cfg.ExpansionThreshold && cur.radius <= s.cfg.ExpansionMaxRadius
			},
			attempt: func(ctx context.Context, req searchRequest, cur searchState) (searchState, error) {
				expanded := cur.radius * 2
				if expanded > s.cfg.MaxExpandedRadius {
					expanded = s.cfg.MaxExpandedRadius
				}
				elements, err := s.query(ctx, req.origin, expanded, req.specialty)
				return searchState{elements: elements, radius: expanded}, err
			},
			accept: func(cur, candidate searchState) bool {
				return len(candidate.elements) > len(cur.elements)
			},
		},
	}
}

// runStages executes the cascade. ok is false when a fatal error ended it.
func (s *GeoSearchService) runStages(ctx context.Context, req searchRequest) (elements []providers.GeoElement, ok bool) {
	logger := observability.LoggerFromContext(ctx)
	state := searchState{radius: req.radius}

	for _, stage := range s.stages() {
		if stage.applies != nil && !stage.applies(req, state) {
			continue
		}

		candidate, err := stage.attempt(ctx, req, state)
		if err != nil {
			if stage.fatal != nil && stage.fatal(err) {
				logger.Warn().Err(err).Str("stage", stage.name).Msg("geo search aborted")
				return nil, false
			}
			logger.Debug().Err(err).Str("stage", stage.name).Msg("geo search stage skipped")
			continue
		}

		if stage.accept(state, candidate) {
			if stage.name != StagePrimaryQuery {
				observability.RecordFallbackAdoption(ctx, s.metrics, stage.name)
			}
			state = candidate
		}
	}

	return state.elements, true
}

// filterElementsByText keeps raw elements whose name, amenity or healthcare tag
// contains text, case-insensitively.
func filterElementsByText(elements []providers.GeoElement, text string) []providers.GeoElement {
	needle := strings.ToLower(text)
	out := make([]providers.GeoElement, 0, len(elements))
	for _, el := range elements {
		name := firstNonEmpty(el.Tag("name"), el.Tag("name:fr"))
		if strings.Contains(strings.ToLower(name), needle) ||
			containsFold(el.Tag("amenity"), needle) ||
			containsFold(el.Tag("healthcare"), needle) {
			out = append(out, el)
		}
	}
	return out
}

// applyPostFilters narrows shaped establishments by specialty, then by text.
// When a text query leaves nothing, the whole shaped list is returned with
// neither filter applied.
func applyPostFilters(shaped []entities.Establishment, req searchRequest) []entities.Establishment {
	list := shaped
	if req.specialty != "" {
		categories, _ := entities.SpecialtyCategories(req.specialty)
		filtered := make([]entities.Establishment, 0, len(list))
		for _, est := range list {
			if containsString(categories, string(est.Type)) || containsFold(est.Specialty, strings.ToLower(req.specialty)) {
				filtered = append(filtered, est)
			}
		}
		list = filtered
	}

	if req.text != "" {
		needle := strings.ToLower(req.text)
		matched := make([]entities.Establishment, 0, len(list))
		for _, est := range list {
			if containsFold(est.Name, needle) || containsFold(est.Specialty, needle) || containsFold(string(est.Type), needle) {
				matched = append(matched, est)
			}
		}
		if len(matched) == 0 {
			return shaped
		}
		list = matched
	}

	return list
}

// containsFold reports whether lowercase needle occurs in s, ignoring case
func containsFold(s, needle string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), needle)
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
