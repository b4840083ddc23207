// Package relaytest provides an in-memory relay server for tests and local development.
//
// It behaves like the real server from the device's point of view: it stores public keys,
// families and encrypted invites as opaque data and never sees a family key.
package relaytest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/familykeys/internal/errors"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
	inviteService "github.com/allisson/familykeys/internal/invite/service"
	"github.com/allisson/familykeys/internal/relay"
)

var (
	errUnknownUser   = errors.Wrap(errors.ErrNotFound, "no public key for e-mail")
	errUnknownInvite = errors.Wrap(errors.ErrNotFound, "invite not found")
)

// Server is a fake relay.
type Server struct {
	router    *gin.Engine
	generator inviteService.LookupCodeGenerator
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	emails     map[string]string // e-mail -> user id
	publicKeys map[string]string // user id -> public key
	families   map[string]*inviteDomain.Family
	byLookup   map[string]string // lookup code -> family id
	invites    map[uuid.UUID]*inviteDomain.EncryptedInvite
	bodies     []string
}

// NewServer creates a fake relay with empty state.
func NewServer(logger *slog.Logger) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		generator:  inviteService.NewLookupCodeGenerator(),
		logger:     logger,
		now:        time.Now,
		emails:     make(map[string]string),
		publicKeys: make(map[string]string),
		families:   make(map[string]*inviteDomain.Family),
		byLookup:   make(map[string]string),
		invites:    make(map[uuid.UUID]*inviteDomain.EncryptedInvite),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.recordBody)

	router.PUT(relay.RoutePublishPublicKey, s.publishPublicKeyHandler)
	router.GET(relay.RouteFetchPublicKey, s.fetchPublicKeyHandler)
	router.POST(relay.RouteCreateFamily, s.createFamilyHandler)
	router.POST(relay.RouteJoinFamily, s.joinFamilyHandler)
	router.POST(relay.RouteCreateInvite, s.createInviteHandler)
	router.GET(relay.RouteFetchInvite, s.fetchInviteHandler)
	router.POST(relay.RouteAcceptInvite, s.acceptInviteHandler)

	s.router = router
	return s
}

// Handler returns the http.Handler serving the relay API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the relay on a local listener. Close the returned server when done.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.router)
}

// SetClock replaces the server clock used for invite expiry.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// RegisterEmail associates email with userID for directory lookups. Users without an
// association are looked up by their id.
func (s *Server) RegisterEmail(userID, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails[email] = userID
}

// Invite returns a copy of the stored invite.
func (s *Server) Invite(id uuid.UUID) (*inviteDomain.EncryptedInvite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	invite, ok := s.invites[id]
	if !ok {
		return nil, false
	}
	cp := *invite
	return &cp, true
}

// Bodies returns every request body the server received, in order.
func (s *Server) Bodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

func (s *Server) recordBody(c *gin.Context) {
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			handleBadRequest(c, err, s.logger)
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(strings.NewReader(string(raw)))

		s.mu.Lock()
		s.bodies = append(s.bodies, c.Request.URL.String()+" "+string(raw))
		s.mu.Unlock()
	}
	c.Next()
}

func validLookupCode(code string) error {
	if code == "" {
		return errors.Wrap(errors.ErrInvalidInput, "lookup code is required")
	}
	if strings.Contains(code, inviteDomain.KeySeparator) {
		return inviteDomain.ErrKeyLeak
	}
	return nil
}

func (s *Server) publishPublicKeyHandler(c *gin.Context) {
	var req relay.PublicKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err, s.logger)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, err, s.logger)
		return
	}

	s.mu.Lock()
	s.publicKeys[c.Param("user_id")] = req.PublicKey
	s.mu.Unlock()

	c.Status(http.StatusNoContent)
}

func (s *Server) fetchPublicKeyHandler(c *gin.Context) {
	email := c.Query("email")

	s.mu.Lock()
	userID, ok := s.emails[email]
	if !ok {
		userID = email
	}
	publicKey, found := s.publicKeys[userID]
	s.mu.Unlock()

	if !found {
		handleError(c, errUnknownUser, s.logger)
		return
	}
	c.JSON(http.StatusOK, relay.PublicKeyResponse{Email: email, PublicKey: publicKey})
}

func (s *Server) createFamilyHandler(c *gin.Context) {
	var req relay.CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err, s.logger)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, err, s.logger)
		return
	}

	lookupCode, err := s.generator.Generate()
	if err != nil {
		handleError(c, err, s.logger)
		return
	}
	family := &inviteDomain.Family{ID: uuid.Must(uuid.NewV7()).String(), Name: req.Name, LookupCode: lookupCode}

	s.mu.Lock()
	s.families[family.ID] = family
	s.byLookup[lookupCode] = family.ID
	s.mu.Unlock()

	c.JSON(http.StatusCreated, family)
}

func (s *Server) joinFamilyHandler(c *gin.Context) {
	var req relay.JoinFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBadRequest(c, err, s.logger)
		return
	}
	if err := validLookupCode(req.LookupCode); err != nil {
		handleError(c, err, s.logger)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, err, s.logger)
		return
	}

	s.mu.Lock()
	familyID, ok := s.byLookup[req.LookupCode]
	var family inviteDomain.Family
	if ok {
		family = *s.families[familyID]
	}
	s.mu.Unlock()

	if !ok {
		handleError(c, inviteDomain.ErrFamilyNotFound, s.logger)
		return
	}
	c.JSON(http.StatusOK, family)
}

func (s *Server) createInviteHandler(c *gin.Context) {
	var invite inviteDomain.EncryptedInvite
	if err := c.ShouldBindJSON(&invite); err != nil {
		handleBadRequest(c, err, s.logger)
		return
	}
	if err := validLookupCode(invite.LookupCode); err != nil {
		handleError(c, err, s.logger)
		return
	}
	if invite.ID == uuid.Nil {
		handleError(c, errors.Wrap(errors.ErrInvalidInput, "invite id is required"), s.logger)
		return
	}
	if err := relay.ValidateEncryptedInvite(&invite); err != nil {
		handleError(c, err, s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.families[invite.FamilyID]; !ok {
		handleError(c, inviteDomain.ErrFamilyNotFound, s.logger)
		return
	}
	if _, ok := s.invites[invite.ID]; ok {
		handleError(c, errors.Wrap(errors.ErrConflict, "invite already exists"), s.logger)
		return
	}
	invite.AcceptedAt = nil
	s.invites[invite.ID] = &invite

	c.Status(http.StatusCreated)
}

func (s *Server) inviteParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, errors.Wrap(errors.ErrInvalidInput, "invalid invite id"), s.logger)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) fetchInviteHandler(c *gin.Context) {
	id, ok := s.inviteParam(c)
	if !ok {
		return
	}

	invite, found := s.Invite(id)
	if !found {
		handleError(c, errUnknownInvite, s.logger)
		return
	}
	c.JSON(http.StatusOK, invite)
}

func (s *Server) acceptInviteHandler(c *gin.Context) {
	id, ok := s.inviteParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	invite, found := s.invites[id]
	if !found {
		handleError(c, errUnknownInvite, s.logger)
		return
	}
	now := s.now()
	if invite.IsConsumed() {
		handleError(c, inviteDomain.ErrInviteConsumed, s.logger)
		return
	}
	if invite.IsExpired(now) {
		handleError(c, inviteDomain.ErrInviteExpired, s.logger)
		return
	}
	invite.AcceptedAt = &now

	family := *s.families[invite.FamilyID]
	family.LookupCode = ""
	c.JSON(http.StatusOK, family)
}
