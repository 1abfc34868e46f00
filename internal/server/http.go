package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/xtding233/damage-coeff/internal/catalog"
	"github.com/xtding233/damage-coeff/internal/damage"
	"github.com/xtding233/damage-coeff/internal/pattern"
)

const (
	maxBodyBytes    = 1 << 20
	maxSeriesPoints = 2000
)

type valueResp struct {
	Value float64 `json:"value"`
}

type defenseResp struct {
	Coefficient float64 `json:"coefficient"`
	Retention   float64 `json:"retention"`
}

type criticalResp struct {
	Bonus  float64 `json:"bonus"`
	Factor float64 `json:"factor"`
}

type seriesResp struct {
	Points []damage.Point `json:"points"`
}

type errResp struct {
	Err string `json:"err"`
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attack", s.handleAttack)
	mux.HandleFunc("GET /attack/base", s.handleBaseAttack)
	mux.HandleFunc("GET /multiplier", s.handleMultiplier)
	mux.HandleFunc("GET /defense", s.handleDefense)
	mux.HandleFunc("GET /critical", s.handleCritical)
	mux.HandleFunc("GET /weakness", s.handleWeakness)
	mux.HandleFunc("GET /estimate", s.handleEstimate)
	mux.HandleFunc("GET /series/critical", s.handleCriticalSeries)
	mux.HandleFunc("GET /series/defense", s.handleDefenseSeries)
	mux.HandleFunc("POST /damage", s.handleDamage)

	mux.HandleFunc("GET /enemies", s.handleEnemies)
	mux.HandleFunc("GET /enemies/{id}", s.handleEnemy)
	mux.HandleFunc("GET /modifiers", s.handleModifiers)

	mux.HandleFunc("GET /patterns", s.handleListPatterns)
	mux.HandleFunc("POST /patterns", s.handleAddPattern)
	mux.HandleFunc("GET /patterns/ranked", s.handleRankedPatterns)
	mux.HandleFunc("POST /patterns/refresh", s.handleRefreshPatterns)
	mux.HandleFunc("GET /patterns/{id}", s.handleGetPattern)
	mux.HandleFunc("PUT /patterns/{id}", s.handleUpdatePattern)
	mux.HandleFunc("DELETE /patterns/{id}", s.handleRemovePattern)

	mux.HandleFunc("GET /ws/live", s.handleLive)
	return logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack passes through so /ws/live can upgrade behind the logger.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "dur", time.Since(start))
	})
}

// writeJSON encodes v before touching the status line, so an unencodable
// result turns into an error response instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		err = encodeError(err)
		status = statusFor(err)
		data, _ = json.Marshal(errResp{Err: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

// encodeError turns a marshal failure into the error reported to the client.
// Non-finite floats only come from inputs that overflow the pipeline.
func encodeError(err error) error {
	var uv *json.UnsupportedValueError
	if errors.As(err, &uv) {
		slog.Warn("result not encodable", "err", err)
		return fmt.Errorf("%w: result is not a finite number", ErrInvalidInput)
	}
	slog.Error("encoding response", "err", err)
	return err
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errResp{Err: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pattern.ErrNotFound),
		errors.Is(err, catalog.ErrEnemyNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, pattern.ErrUnknownEnemy),
		errors.Is(err, damage.ErrInvalidWeaponTier):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// query reads optional numeric parameters; the first bad one wins.
type query struct {
	r   *http.Request
	err error
}

func (q *query) float(key string, def float64) float64 {
	s := q.r.URL.Query().Get(key)
	if s == "" || q.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		q.err = fmt.Errorf("%w: invalid %s", ErrInvalidInput, key)
		return def
	}
	if err := checkFinite(key, v); err != nil {
		q.err = err
		return def
	}
	return v
}

func (q *query) integer(key string, def int) int {
	s := q.r.URL.Query().Get(key)
	if s == "" || q.err != nil {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		q.err = fmt.Errorf("%w: invalid %s", ErrInvalidInput, key)
		return def
	}
	return v
}

func (q *query) flag(key string) bool {
	s := q.r.URL.Query().Get(key)
	if s == "" || q.err != nil {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.err = fmt.Errorf("%w: invalid %s", ErrInvalidInput, key)
	}
	return v
}

func (q *query) require(keys ...string) {
	for _, k := range keys {
		if q.err == nil && q.r.URL.Query().Get(k) == "" {
			q.err = fmt.Errorf("%w: missing param %s", ErrInvalidInput, k)
		}
	}
}

// attack power from base stats; buff in percent
func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	q.require("base", "weapon")
	cfg := damage.AttackPowerConfig{
		CharacterBaseAttack: q.float("base", 0),
		WeaponAttack:        q.float("weapon", 0),
		AttackBuff:          damage.BuffFactor(q.float("buff", 0)),
		AttackConstant:      q.float("const", 0),
	}
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	writeJSON(w, http.StatusOK, valueResp{Value: damage.ResolveAttackPower(cfg)})
}

// hidden base attack from the non-combat status total
func (s *Server) handleBaseAttack(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	q.require("total", "weapon")
	total := q.float("total", 0)
	weapon := q.float("weapon", 0)
	buff := q.float("buff", 0)
	constant := q.float("const", 0)
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	v := damage.ResolveCharacterBaseAttack(total, weapon, damage.BuffFactor(buff), constant)
	writeJSON(w, http.StatusOK, valueResp{Value: v})
}

func (s *Server) handleMultiplier(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	cfg := damage.AttackMultiplierConfig{
		BaseMultiplier:                q.float("base", damage.BaseMultiplier),
		AttackMultiplierPlus:          q.float("plus", 0),
		AttributeAttackMultiplierPlus: q.float("attr", 0),
		DamageIncreaseRate:            q.float("dmg", 0),
		EnemyDamageIncreaseRate:       q.float("enemy", 0),
	}
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	writeJSON(w, http.StatusOK, valueResp{Value: damage.CalculateAttackMultiplier(cfg)})
}

func (s *Server) handleDefense(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	q.require("def")
	cfg := damage.EnemyDefenseConfig{
		BaseDefense:            q.float("def", 0),
		AdditionalDefenseCoeff: q.float("add", 0),
		Penetration:            q.float("pen", 0),
		DefenseDebuff:          q.float("debuff", 0),
		IsWindAttack:           q.flag("wind"),
	}
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	writeJSON(w, http.StatusOK, defenseResp{
		Coefficient: damage.DefenseCoefficient(cfg),
		Retention:   damage.CalculateEnemyDefense(cfg),
	})
}

func (s *Server) handleCritical(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	q.require("rate", "mult")
	cfg := damage.CriticalConfig{
		CriticalRate:       q.float("rate", 0),
		CriticalMultiplier: q.float("mult", 100),
	}
	if q.err == nil {
		q.err = checkCriticalRate(cfg.CriticalRate)
	}
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	bonus := damage.CalculateCriticalExpectation(cfg)
	writeJSON(w, http.StatusOK, criticalResp{Bonus: bonus, Factor: damage.CriticalFactor(bonus)})
}

func (s *Server) handleWeakness(w http.ResponseWriter, r *http.Request) {
	wk := damage.Weakness(r.URL.Query().Get("type"))
	if err := checkWeakness(wk); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, valueResp{Value: wk.Coefficient()})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	q.require("tier", "r0", "r1", "debuff")
	tier := q.integer("tier", 0)
	r0 := q.float("r0", 0)
	r1 := q.float("r1", 0)
	debuff := q.float("debuff", 0)
	if q.err == nil {
		q.err = validateTier(tier)
	}
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	v, err := damage.EstimateAdditionalDefenseCoeff(tier, r0, r1, debuff)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, valueResp{Value: v})
}

func (q *query) sweep() (from, to, step float64) {
	q.require("from", "to", "step")
	from, to, step = q.float("from", 0), q.float("to", 0), q.float("step", 0)
	if q.err == nil && step > 0 && (to-from)/step >= maxSeriesPoints {
		q.err = fmt.Errorf("%w: too many points", ErrInvalidInput)
	}
	return from, to, step
}

// critical expectation over a multiplier range, fixed rate
func (s *Server) handleCriticalSeries(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	rate := q.float("rate", 0)
	from, to, step := q.sweep()
	if q.err == nil {
		q.err = checkCriticalRate(rate)
	}
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	writeJSON(w, http.StatusOK, seriesResp{Points: damage.CriticalSeries(rate, from, to, step)})
}

// defense retention over a base defense range
func (s *Server) handleDefenseSeries(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	cfg := damage.EnemyDefenseConfig{
		AdditionalDefenseCoeff: q.float("add", 0),
		Penetration:            q.float("pen", 0),
		DefenseDebuff:          q.float("debuff", 0),
		IsWindAttack:           q.flag("wind"),
	}
	from, to, step := q.sweep()
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	writeJSON(w, http.StatusOK, seriesResp{Points: damage.DefenseSeries(cfg, from, to, step)})
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return data, nil
}

func (s *Server) handleDamage(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	cfg, err := s.decodeConfig(data)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.evaluate(cfg))
}

// enemies active now (or at ?at=RFC3339); ?all=true skips the window filter
func (s *Server) handleEnemies(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	if q.flag("all") {
		writeJSON(w, http.StatusOK, s.store.Enemies())
		return
	}
	if q.err != nil {
		writeErr(w, q.err)
		return
	}
	at := s.now()
	if v := r.URL.Query().Get("at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeErr(w, fmt.Errorf("%w: %v", ErrInvalidInput, err))
			return
		}
		at = t
	}
	out := s.store.ActiveEnemies(at)
	if out == nil {
		out = []catalog.Enemy{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEnemy(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleModifiers(w http.ResponseWriter, r *http.Request) {
	c := catalog.Category(r.URL.Query().Get("category"))
	if c == "" {
		all := make(map[catalog.Category][]damage.Modifier, len(catalog.Categories))
		for _, c := range catalog.Categories {
			if ms := s.store.Modifiers(c); ms != nil {
				all[c] = ms
			}
		}
		writeJSON(w, http.StatusOK, all)
		return
	}
	if !c.Known() {
		writeErr(w, fmt.Errorf("%w: unknown category %s", ErrInvalidInput, c))
		return
	}
	ms := s.store.Modifiers(c)
	if ms == nil {
		ms = []damage.Modifier{}
	}
	writeJSON(w, http.StatusOK, ms)
}

func (s *Server) decodeInput(r *http.Request) (pattern.Input, error) {
	data, err := readBody(r)
	if err != nil {
		return pattern.Input{}, err
	}
	var in pattern.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return pattern.Input{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validateInput(in); err != nil {
		return pattern.Input{}, err
	}
	return in, nil
}

func (s *Server) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.book.List())
}

func (s *Server) handleAddPattern(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeInput(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	e, err := s.book.Add(in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetPattern(w http.ResponseWriter, r *http.Request) {
	e, err := s.book.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdatePattern(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeInput(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	e, err := s.book.Update(r.PathValue("id"), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleRemovePattern(w http.ResponseWriter, r *http.Request) {
	if err := s.book.Remove(r.PathValue("id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rankedResp struct {
	Patterns []damage.Pattern `json:"patterns"`
	Best     *damage.Pattern  `json:"best,omitempty"`
}

func (s *Server) handleRankedPatterns(w http.ResponseWriter, r *http.Request) {
	resp := rankedResp{Patterns: s.book.Ranked()}
	if len(resp.Patterns) > 0 {
		resp.Best = &resp.Patterns[0]
	} else {
		resp.Patterns = []damage.Pattern{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type refreshResp struct {
	Patterns []pattern.Entry `json:"patterns"`
	Errors   []string        `json:"errors,omitempty"`
}

// re-selects every pattern's enemy from the current catalog
func (s *Server) handleRefreshPatterns(w http.ResponseWriter, r *http.Request) {
	var resp refreshResp
	for _, err := range s.book.Refresh() {
		resp.Errors = append(resp.Errors, err.Error())
	}
	resp.Patterns = s.book.List()
	writeJSON(w, http.StatusOK, resp)
}
