package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/render/dot"
)

// Unit is the JSON view of a live unit.
type Unit struct {
	Kind     patch.Kind `json:"kind"`
	ID       int        `json:"id"`
	Key      string     `json:"key"`
	Asset    string     `json:"file,omitempty"`
	Position patch.Vec3 `json:"location"`
	Selected bool       `json:"selected,omitempty"`
	Value    float64    `json:"value"`
	Inlets   []string   `json:"inlets,omitempty"`
	Inputs   []string   `json:"inputs,omitempty"`
	Outlet   bool       `json:"outlet,omitempty"`
	Meta     patch.Meta `json:"meta,omitempty"`
}

// SpawnRequest is the body of POST /units.
type SpawnRequest struct {
	Kind     patch.Kind `json:"kind"`
	Key      string     `json:"key"`
	Asset    string     `json:"file,omitempty"`
	Position patch.Vec3 `json:"location"`
}

// MoveRequest is the body of POST /units/{kind}/{id}/move.
type MoveRequest struct {
	Position patch.Vec3 `json:"location"`
}

// ConnectRequest is the body of POST /connections. Signal selects an
// audio connection from a voice output to a voice input.
type ConnectRequest struct {
	From   patch.Handle `json:"from"`
	To     patch.Handle `json:"to"`
	Socket int          `json:"socket"`
	Signal bool         `json:"signal,omitempty"`
}

// PublishRequest is the optional body of POST /snapshots. When Units is
// set it replaces the selection before publishing.
type PublishRequest struct {
	Units []patch.Handle `json:"units,omitempty"`
}

func (s *Server) listUnits(w http.ResponseWriter, r *http.Request) {
	reg := s.eng.Registry()
	out := make([]Unit, 0, reg.Len())
	for _, h := range reg.All() {
		u, _ := reg.Resolve(h)
		out = append(out, unitView(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func unitView(u *patch.Unit) Unit {
	v := Unit{
		Kind:     u.Kind(),
		ID:       u.ID(),
		Key:      u.Key(),
		Asset:    u.Asset(),
		Position: u.Position(),
		Selected: u.Selected(),
		Value:    u.StoredValue(),
		Outlet:   u.Outlet() != nil,
		Meta:     u.Meta(),
	}
	for i := range u.NumInlets() {
		v.Inlets = append(v.Inlets, u.Inlet(i).Name)
	}
	for i := range u.NumInputs() {
		v.Inputs = append(v.Inputs, u.Input(i).Name)
	}
	return v
}

func (s *Server) spawnUnit(w http.ResponseWriter, r *http.Request) {
	var req SpawnRequest
	if !decode(w, r, &req) {
		return
	}
	var h patch.Handle
	var err error
	switch req.Kind {
	case patch.Control:
		h, err = s.eng.SpawnControl(req.Key, req.Position)
	case patch.Voice:
		h, err = s.eng.SpawnVoice(req.Key, req.Asset, req.Position)
	case patch.Graphics:
		h, err = s.eng.SpawnGraphics(req.Key, req.Asset, req.Position)
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unknown kind %d", int(req.Kind))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	u, _ := s.eng.Registry().Resolve(h)
	writeJSON(w, http.StatusCreated, unitView(u))
}

func (s *Server) destroyUnit(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.eng.Destroy(h) == 0 {
		writeError(w, errors.New(errors.ErrCodeStaleHandle, "%s not found", h))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) moveUnit(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req MoveRequest
	if !decode(w, r, &req) {
		return
	}
	u, ok := s.eng.Registry().Resolve(h)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeStaleHandle, "%s not found", h))
		return
	}
	s.eng.Move([]patch.Handle{h}, req.Position.Sub(u.Position()))
	writeJSON(w, http.StatusOK, unitView(u))
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if !decode(w, r, &req) {
		return
	}
	var err error
	if req.Signal {
		err = s.eng.ConnectSignal(req.From, req.To, req.Socket)
	} else {
		err = s.eng.Connect(req.From, req.To, req.Socket)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, patch.Cable{From: req.From, To: req.To, Socket: req.Socket, Signal: req.Signal})
}

func (s *Server) disconnect(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	socket, err := strconv.Atoi(chi.URLParam(r, "socket"))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad socket"))
		return
	}
	var ok bool
	if r.URL.Query().Get("signal") == "true" {
		ok = s.eng.DisconnectSignal(h, socket)
	} else {
		ok = s.eng.Disconnect(h, socket)
	}
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "%s socket %d is not connected", h, socket))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": s.eng.Undo()})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": s.eng.Redo()})
}

func (s *Server) step(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"units": s.eng.Registry().Len()}
	if err := s.eng.Tick(); err != nil {
		resp["cycle"] = errors.UserMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.eng.ResetStep()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	detailed := r.URL.Query().Get("detailed") == "true"
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	fmt.Fprint(w, dot.ToDOT(s.eng.Registry(), dot.Options{Detailed: detailed}))
}

func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	if len(req.Units) > 0 {
		s.eng.DeselectAll()
		for _, h := range req.Units {
			s.eng.Select(h)
		}
	}
	id, err := s.eng.Publish(r.Context(), s.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) paste(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSnapshotID(id); err != nil {
		writeError(w, err)
		return
	}
	hs, err := s.eng.Fetch(r.Context(), s.store, id)
	if err != nil && len(hs) == 0 {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"units": hs})
}

// =============================================================================
// Helpers
// =============================================================================

func handleParam(r *http.Request) (patch.Handle, error) {
	kind, err := patch.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return patch.Handle{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad kind")
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return patch.Handle{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad id")
	}
	return patch.Handle{Kind: kind, ID: id}, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(code),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeStaleHandle, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeProgramNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSlotExhausted, errors.ErrCodeSlotInUse, errors.ErrCodeDuplicateSingleton,
		errors.ErrCodeAlreadyConnected, errors.ErrCodeCycleDetected:
		return http.StatusConflict
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidKey, errors.ErrCodeInvalidProgram,
		errors.ErrCodeInvalidAsset, errors.ErrCodeInvalidSlot, errors.ErrCodeUnknownFactoryKey,
		errors.ErrCodeSelfLoop, errors.ErrCodeNoSuchSocket:
		return http.StatusBadRequest
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
