package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/form"
	"wedding-rsvp/internal/invite"
	"wedding-rsvp/internal/models"
)

// Error codes that are not validation codes
const (
	CodeInviteRequired = "InviteRequired"
	CodeInvalidDraft   = "InvalidDraft"
	CodeBadRequest     = "BadRequest"
	CodeInternal       = "InternalError"
)

// RSVPHandler serves the guest-facing RSVP API. Every request builds a fresh
// form session, so the handler itself holds no guest state.
type RSVPHandler struct {
	resolver *invite.Resolver
	sink     form.Sink
	log      zerolog.Logger
	opts     []form.Option
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(resolver *invite.Resolver, sink form.Sink, log zerolog.Logger, opts ...form.Option) *RSVPHandler {
	return &RSVPHandler{
		resolver: resolver,
		sink:     sink,
		log:      log.With().Str("component", "RSVPHandler").Logger(),
		opts:     opts,
	}
}

type rsvpRequest struct {
	Code  string           `json:"code"`
	Draft models.RsvpDraft `json:"draft"`
}

type inviteResponse struct {
	Tier       models.InviteTier  `json:"tier"`
	Profile    models.TierProfile `json:"profile"`
	Visibility form.VisibilitySet `json:"visibility"`
	Message    string             `json:"message"`
}

type previewResponse struct {
	State      form.State         `json:"state"`
	Visibility form.VisibilitySet `json:"visibility"`
	Draft      models.RsvpDraft   `json:"draft"`
	Error      *errorBody         `json:"error,omitempty"`
}

type submitResponse struct {
	Submitted bool   `json:"submitted"`
	Test      bool   `json:"test"`
	Attending bool   `json:"attending"`
	Guests    int    `json:"guests"`
	Title     string `json:"title"`
	Message   string `json:"message"`
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Delivered *int   `json:"delivered,omitempty"`
	Total     *int   `json:"total,omitempty"`
}

// RegisterRoutes mounts the API on r. submitMiddleware runs only in front of
// the submit endpoint.
func (h *RSVPHandler) RegisterRoutes(r gin.IRouter, submitMiddleware ...gin.HandlerFunc) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/invite", h.GetInvite)
	api.POST("/rsvp/preview", h.Preview)
	submit := append([]gin.HandlerFunc{}, submitMiddleware...)
	api.POST("/rsvp", append(submit, h.Submit)...)
}

// Health - GET /health
func (h *RSVPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetInvite - GET /api/invite?i=CODE
func (h *RSVPHandler) GetInvite(c *gin.Context) {
	session := h.newSession()
	tier, _ := session.EnterCode(c.Query(invite.QueryParam))
	profile := session.Profile()

	c.JSON(http.StatusOK, inviteResponse{
		Tier:       tier,
		Profile:    profile,
		Visibility: session.Visibility(),
		Message:    invite.GuidanceMessage(profile),
	})
}

// Preview - POST /api/rsvp/preview
// Replays the draft and reports what the form should show, plus the first
// validation error that would block a submit.
func (h *RSVPHandler) Preview(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	resp := previewResponse{
		State:      session.State(),
		Visibility: session.Visibility(),
		Draft:      session.Draft(),
	}

	var verr *form.ValidationError
	if err := form.Validate(session.Profile(), session.Draft()); errors.As(err, &verr) {
		resp.Error = &errorBody{Code: verr.Code, Message: verr.Message}
	}

	c.JSON(http.StatusOK, resp)
}

// Submit - POST /api/rsvp
func (h *RSVPHandler) Submit(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	result, err := session.Submit(c.Request.Context())
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		Submitted: true,
		Test:      result.Test,
		Attending: result.Attending,
		Guests:    len(result.Records),
		Title:     result.Title,
		Message:   result.Message,
	})
}

func (h *RSVPHandler) newSession() *form.Session {
	return form.NewSession(h.resolver, h.sink, h.log, h.opts...)
}

func (h *RSVPHandler) loadSession(c *gin.Context) (*form.Session, bool) {
	var req rsvpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: CodeBadRequest, Message: err.Error()})
		return nil, false
	}

	session := h.newSession()
	if _, err := session.EnterCode(req.Code); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: CodeBadRequest, Message: err.Error()})
		return nil, false
	}
	if err := session.Load(req.Draft); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: CodeInvalidDraft, Message: err.Error()})
		return nil, false
	}
	return session, true
}

func (h *RSVPHandler) writeSubmitError(c *gin.Context, err error) {
	var verr *form.ValidationError
	var serr *form.SubmissionError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, errorBody{Code: verr.Code, Message: verr.Message})
	case errors.Is(err, form.ErrInviteRequired):
		c.JSON(http.StatusForbidden, errorBody{
			Code:    CodeInviteRequired,
			Message: invite.GuidanceMessage(h.resolver.Profile(models.TierNone)),
		})
	case errors.As(err, &serr):
		c.JSON(http.StatusBadGateway, errorBody{
			Code:      form.CodeSubmissionTransportFailure,
			Message:   serr.Message(),
			Delivered: &serr.Delivered,
			Total:     &serr.Total,
		})
	default:
		h.log.Error().Err(err).Msg("Unexpected submit error")
		c.JSON(http.StatusInternalServerError, errorBody{Code: CodeInternal, Message: err.Error()})
	}
}
