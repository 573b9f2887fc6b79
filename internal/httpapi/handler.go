package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/catalog"
	"github.com/pyqhub/mcp-server/internal/httpapi/apiresp"
	"github.com/pyqhub/mcp-server/internal/questions"
)

// ErrInvalidQuery is wrapped by every query parameter parse failure.
var ErrInvalidQuery = errors.New("invalid query")

type bankStore interface {
	Current() *catalog.Catalog
	View(fn func(*catalog.Snapshot) error) error
	Reload(ctx context.Context) (*catalog.Snapshot, error)
}

type Handler struct {
	store bankStore
	log   *zap.Logger
}

type questionList struct {
	Heading    questions.Heading `json:"heading"`
	MarksLabel string            `json:"marks_label"`
	Total      int               `json:"total"`
	Questions  []questions.View  `json:"questions"`
}

type yearList struct {
	Years []string `json:"years"`
	Types []string `json:"types"`
}

type syllabusOutline struct {
	Units []questions.OutlineUnit `json:"units"`
	Total int                     `json:"total"`
}

type marksTotal struct {
	Marks string         `json:"marks"`
	Total int            `json:"total"`
	Band  questions.Band `json:"band"`
}

type topicList struct {
	Query   string               `json:"query"`
	Total   int                  `json:"total"`
	Results []catalog.TopicMatch `json:"results"`
}

type reloadResult struct {
	Questions int                  `json:"questions"`
	LoadedAt  time.Time            `json:"loaded_at"`
	Files     []catalog.FileStatus `json:"files"`
}

func NewHandler(store bankStore, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// current writes a 503 and returns nil when nothing is loaded yet.
func (h *Handler) current(w http.ResponseWriter, r *http.Request) *catalog.Catalog {
	cat := h.store.Current()
	if cat == nil {
		apiresp.WriteError(w, r, http.StatusServiceUnavailable, "question bank not loaded")
	}
	return cat
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	cat := h.store.Current()
	if cat == nil {
		apiresp.WriteError(w, r, http.StatusServiceUnavailable, "question bank not loaded")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]any{
		"questions": len(cat.Questions),
		"loaded_at": cat.LoadedAt,
	})
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	state, err := parseFilterState(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	highlight, err := boolParam(r, "highlight")
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cat := h.current(w, r)
	if cat == nil {
		return
	}

	matched := cat.Filter(state)

	term := ""
	if highlight {
		term = state.SearchTerm
	}

	apiresp.WriteList(w, r, questionList{
		Heading:    questions.HeadingFor(state, len(matched)),
		MarksLabel: questions.RangeLabel(state.MarksRange),
		Total:      len(matched),
		Questions:  questions.NewViews(matched, term),
	}, len(matched))
}

func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	cat := h.current(w, r)
	if cat == nil {
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, yearList{Years: cat.Years, Types: cat.Types})
}

func (h *Handler) Syllabus(w http.ResponseWriter, r *http.Request) {
	base, err := parseFilterState(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	// The outline supplies its own hierarchy selections.
	base.Unit, base.Chapter, base.Subchapter = nil, nil, nil

	cat := h.current(w, r)
	if cat == nil {
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, syllabusOutline{
		Units: questions.Outline(cat.Syllabus, cat.Questions, base),
		Total: questions.Count(cat.Questions, base, cat.Syllabus),
	})
}

func (h *Handler) ResolveUnit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := strings.TrimSpace(q.Get("code"))
	chapterRaw := strings.TrimSpace(q.Get("chapter"))

	var cc questions.ChapterCode
	switch {
	case code != "" && chapterRaw != "":
		apiresp.WriteError(w, r, http.StatusBadRequest, "pass either code or chapter, not both")
		return
	case chapterRaw != "":
		n, err := strconv.ParseFloat(chapterRaw, 64)
		if err != nil {
			apiresp.WriteError(w, r, http.StatusBadRequest, "chapter must be a number")
			return
		}
		cc = questions.NumberCode(n)
	case code != "":
		cc = questions.StringCode(code)
	default:
		apiresp.WriteError(w, r, http.StatusBadRequest, "code or chapter is required")
		return
	}

	cat := h.current(w, r)
	if cat == nil {
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, cat.Resolve(cc))
}

func (h *Handler) TotalMarks(w http.ResponseWriter, r *http.Request) {
	marks := strings.TrimSpace(r.URL.Query().Get("marks"))
	apiresp.WriteOK(w, r, http.StatusOK, marksTotal{
		Marks: marks,
		Total: questions.TotalMarks(marks),
		Band:  questions.BandOf(marks),
	})
}

func (h *Handler) LookupTopics(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "q is required")
		return
	}
	maxResults, err := intParam(r, "max", 0)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	out := topicList{Query: query}
	err = h.store.View(func(snap *catalog.Snapshot) error {
		matches, total, err := snap.LookupTopics(query, maxResults)
		if err != nil {
			return err
		}
		out.Results = matches
		out.Total = total
		return nil
	})
	switch {
	case errors.Is(err, catalog.ErrNotLoaded), errors.Is(err, catalog.ErrTopicIndexUnavailable):
		apiresp.WriteError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		h.log.Error("topic lookup failed", zap.String("query", query), zap.Error(err))
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	apiresp.WriteList(w, r, out, len(out.Results))
}

func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Reload(r.Context())
	if err != nil {
		h.log.Error("reload failed", zap.Error(err))
		apiresp.WriteError(w, r, http.StatusInternalServerError, "reload failed")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, reloadResult{
		Questions: len(snap.Catalog.Questions),
		LoadedAt:  snap.Catalog.LoadedAt,
		Files:     snap.Catalog.Files,
	})
}

// parseFilterState reads the filter criteria from the query string. Empty
// parameters mean no constraint.
func parseFilterState(r *http.Request) (questions.FilterState, error) {
	q := r.URL.Query()
	state := questions.FilterState{
		SearchTerm:   q.Get("search"),
		Year:         strings.TrimSpace(q.Get("year")),
		QuestionType: strings.TrimSpace(q.Get("type")),
	}

	marks, ok := questions.ParseMarksRange(q.Get("marks"))
	if !ok {
		return state, fmt.Errorf("%w: marks must be low, medium or high", ErrInvalidQuery)
	}
	state.MarksRange = marks

	if raw := strings.TrimSpace(q.Get("unit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return state, fmt.Errorf("%w: unit must be an integer", ErrInvalidQuery)
		}
		state.Unit = &n
	}
	if raw := strings.TrimSpace(q.Get("chapter")); raw != "" {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return state, fmt.Errorf("%w: chapter must be a number", ErrInvalidQuery)
		}
		state.Chapter = &n
	}
	if raw := strings.TrimSpace(q.Get("subchapter")); raw != "" {
		state.Subchapter = &raw
	}
	return state, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidQuery, name)
	}
	return n, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidQuery, name)
	}
	return b, nil
}
