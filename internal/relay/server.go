package relay

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sigil/internal/domain"
)

const contentTypeCBOR = "application/cbor"

// Server serves the relay HTTP API over a MemoryStore.
type Server struct {
	store    *MemoryStore
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer returns a relay server. A nil logger selects slog.Default.
func NewServer(store *MemoryStore, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Handler builds the echo engine with all routes mounted.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.POST("/register", s.handleRegister)
	e.GET("/prekey/:username", s.handleFetchPreKey)
	e.POST("/msg/:username", s.handlePostMessage)
	e.GET("/msg/:username", s.handleFetchMessages)
	e.POST("/msg/:username/ack", s.handleAckMessages)
	return e
}

func (s *Server) handleRegister(c echo.Context) error {
	var bundle domain.PreKeyBundle
	if err := readCBOR(c, &bundle); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&bundle); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.store.RegisterBundle(bundle)
	s.log.Info("registered bundle",
		"username", bundle.Username,
		"spk_id", bundle.SignedPreKeyID,
		"opks", len(bundle.OneTimePreKeys))
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleFetchPreKey(c echo.Context) error {
	username := domain.Username(c.Param("username"))
	bundle, ok := s.store.TakeBundle(username)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no bundle for user")
	}
	if len(bundle.OneTimePreKeys) == 0 {
		s.log.Warn("bundle served with no one-time pre-key", "username", username)
	}
	return writeCBOR(c, bundle)
}

func (s *Server) handlePostMessage(c echo.Context) error {
	var env domain.Envelope
	if err := readCBOR(c, &env); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	env.To = domain.Username(c.Param("username"))
	s.store.PushEnvelope(env)
	s.log.Info("queued envelope", "from", env.From, "to", env.To, "handshake", env.Handshake != nil)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleFetchMessages(c echo.Context) error {
	username := domain.Username(c.Param("username"))
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "bad limit")
		}
		limit = n
	}
	return writeCBOR(c, s.store.ListEnvelopes(username, limit))
}

type ackRequest struct {
	Count int `json:"count" cbor:"count" validate:"gte=0"`
}

func (s *Server) handleAckMessages(c echo.Context) error {
	var req ackRequest
	if err := readCBOR(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.store.AckEnvelopes(domain.Username(c.Param("username")), req.Count)
	return c.NoContent(http.StatusNoContent)
}

func readCBOR(c echo.Context, out any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	return cbor.Unmarshal(body, out)
}

func writeCBOR(c echo.Context, v any) error {
	b, err := cbor.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentTypeCBOR, b)
}
