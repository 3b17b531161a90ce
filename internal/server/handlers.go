package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kingrea/liuyao/internal/advisor"
	"github.com/kingrea/liuyao/internal/ganzhi"
	"github.com/kingrea/liuyao/internal/hexagram"
	"github.com/kingrea/liuyao/internal/wuxing"
)

type healthResponse struct {
	Status        string    `json:"status"`
	Lifecycle     string    `json:"lifecycle"`
	Version       string    `json:"version"`
	Backend       string    `json:"backend"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type chartRequest struct {
	Upper  string  `json:"upper"`
	Lower  string  `json:"lower"`
	Moving [6]bool `json:"moving"`
	Time   string  `json:"time,omitempty"`
	// DayStem overrides the day stem derived from Time.
	DayStem string `json:"day_stem,omitempty"`
}

type chartResponse struct {
	Success bool           `json:"success"`
	Chart   hexagram.Chart `json:"chart"`
	Pillars ganzhi.Pillars `json:"pillars"`
}

type hexagramRequest struct {
	chartRequest
	Question string `json:"question"`
	YongShen string `json:"yong_shen"`
}

type metadata struct {
	AnalyzedAt time.Time `json:"analyzed_at"`
	Backend    string    `json:"backend"`
	Version    string    `json:"version"`
	RequestID  string    `json:"request_id"`
}

type hexagramResponse struct {
	Success  bool           `json:"success"`
	Chart    hexagram.Chart `json:"chart"`
	Pillars  ganzhi.Pillars `json:"pillars"`
	Analysis advisor.Advice `json:"analysis"`
	Metadata metadata       `json:"metadata"`
}

type tcmRequest struct {
	wuxing.Scores
	Symptoms []string `json:"symptoms"`
}

type tcmResponse struct {
	Success  bool           `json:"success"`
	Reading  wuxing.Reading `json:"reading"`
	Advice   wuxing.Advice  `json:"advice"`
	Analysis advisor.Advice `json:"analysis"`
	Metadata metadata       `json:"metadata"`
}

// requestError is a client mistake mapped to a 4xx status.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		Lifecycle:     string(s.Status()),
		Version:       Version,
		Backend:       s.advisor.Backend(),
		UptimeSeconds: s.uptimeSeconds(),
		Timestamp:     s.now(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	chart, pillars, err := s.buildChart(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chartResponse{Success: true, Chart: chart, Pillars: pillars})
}

func (s *Server) handleAnalyzeHexagram(w http.ResponseWriter, r *http.Request) {
	var req hexagramRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	chart, pillars, err := s.buildChart(req.chartRequest)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	analysis, err := s.advisor.Hexagram(r.Context(), advisor.HexagramFacts{
		Question: req.Question,
		YongShen: req.YongShen,
		Chart:    chart,
		Pillars:  &pillars,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hexagramResponse{
		Success:  true,
		Chart:    chart,
		Pillars:  pillars,
		Analysis: analysis,
		Metadata: s.metadata(r),
	})
}

func (s *Server) handleAnalyzeTCM(w http.ResponseWriter, r *http.Request) {
	var req tcmRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	reading, err := wuxing.Analyze(req.Scores)
	if err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}
	local, err := wuxing.AdviceFor(reading.Dominant)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	analysis, err := s.advisor.Constitution(r.Context(), advisor.ConstitutionFacts{Reading: reading, Symptoms: req.Symptoms})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tcmResponse{
		Success:  true,
		Reading:  reading,
		Advice:   local,
		Analysis: analysis,
		Metadata: s.metadata(r),
	})
}

func (s *Server) buildChart(req chartRequest) (hexagram.Chart, ganzhi.Pillars, error) {
	if strings.TrimSpace(req.Upper) == "" || strings.TrimSpace(req.Lower) == "" {
		return hexagram.Chart{}, ganzhi.Pillars{}, badRequest("upper and lower trigrams are required")
	}
	at, err := s.parseTime(req.Time)
	if err != nil {
		return hexagram.Chart{}, ganzhi.Pillars{}, err
	}
	pillars, err := ganzhi.Calendar{LateZiNextDay: s.settings.LateZiNextDay}.Pillars(at)
	if err != nil {
		return hexagram.Chart{}, ganzhi.Pillars{}, err
	}
	day := pillars.Day.Stem.String()
	if stem := strings.TrimSpace(req.DayStem); stem != "" {
		day = stem
	}
	chart, err := hexagram.BuildChart(hexagram.Selection{
		Upper:   strings.TrimSpace(req.Upper),
		Lower:   strings.TrimSpace(req.Lower),
		Moving:  req.Moving,
		DayStem: day,
	})
	if err != nil {
		return hexagram.Chart{}, ganzhi.Pillars{}, err
	}
	return chart, pillars, nil
}

func (s *Server) parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now().In(s.settings.Location), nil
	}
	t, err := ganzhi.ParseTime(raw, s.settings.Location)
	if err != nil {
		return time.Time{}, badRequest("invalid time %q", raw)
	}
	return t, nil
}

func (s *Server) metadata(r *http.Request) metadata {
	return metadata{
		AnalyzedAt: s.now(),
		Backend:    s.advisor.Backend(),
		Version:    Version,
		RequestID:  RequestIDFrom(r.Context()),
	}
}

// decodeBody reads at most MaxBodyBytes and decodes JSON into dst.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return badRequest("empty body")
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &requestError{status: http.StatusRequestEntityTooLarge, msg: "payload exceeds limit"}
		}
		return badRequest("unable to read body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return badRequest("empty body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return badRequest("invalid JSON")
	}
	return nil
}

// fail maps err onto a status code. Unknown symbols and out-of-range dates
// are the caller's fault; anything else is logged as a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		writeError(w, reqErr.status, reqErr.msg)
	case errors.Is(err, hexagram.ErrInvalidSymbol), errors.Is(err, ganzhi.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Printf("server: %s %s failed id=%s: %v", r.Method, r.URL.Path, RequestIDFrom(r.Context()), err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg, RequestID: w.Header().Get(RequestIDHeader)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
