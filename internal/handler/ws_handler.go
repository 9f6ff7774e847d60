package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/face"
	"github.com/stemsi/facetrack-backend/internal/middleware"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
	ws "github.com/stemsi/facetrack-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live camera frames for attendance.
type WSHandler struct {
	attendanceService *service.AttendanceService
	photoService      *service.PhotoService
	maxMessageBytes   int64
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. maxUploadBytes bounds a single
// decoded frame; the base64 message may be a third larger.
func NewWSHandler(
	attendanceService *service.AttendanceService,
	photoService *service.PhotoService,
	log zerolog.Logger,
	allowedOrigins []string,
	maxUploadBytes int64,
) *WSHandler {
	return &WSHandler{
		attendanceService: attendanceService,
		photoService:      photoService,
		maxMessageBytes:   maxUploadBytes*4/3 + 1024,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// LiveAttendance godoc
// WS /ws/v1/lecturer/live-attendance?token=…&qualification_id=…&module_id=…
// Accumulates the students matched across frames and records the register
// with one mark each on finish. Closing without finish discards the session.
func (h *WSHandler) LiveAttendance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	qualificationID := optionalIntQuery(c, "qualification_id")
	moduleID := optionalIntQuery(c, "module_id")
	if qualificationID == nil || moduleID == nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"qualification_id": "qualification_id and module_id are required",
		})
		return
	}

	// Reject a bad target before upgrading so the client gets a normal HTTP error.
	if err := h.attendanceService.CheckTarget(c.Request.Context(), claims.UserID, *qualificationID, *moduleID); err != nil {
		failService(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.maxMessageBytes)

	sessionID := uuid.New().String()
	wsLog := h.log.With().
		Int("lecturer_id", claims.UserID).
		Int("module_id", *moduleID).
		Str("session_id", sessionID).
		Logger()

	wsLog.Info().Msg("Live attendance connected")
	ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, SessionID: sessionID})

	finished := false
	defer func() {
		if finished {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.attendanceService.DiscardLive(ctx, sessionID); err != nil {
			wsLog.Warn().Err(err).Msg("Failed to discard live session")
		}
	}()

	for {
		var msg ws.Request
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionFrame:
			h.handleFrame(conn, wsLog, sessionID, msg.Image)
		case ws.ActionFinish:
			if h.handleFinish(conn, wsLog, sessionID, claims.UserID, *qualificationID, *moduleID) {
				finished = true
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "saved"),
					time.Now().Add(time.Second))
				return
			}
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// handleFrame matches one camera frame and reports the running session.
func (h *WSHandler) handleFrame(conn *websocket.Conn, wsLog zerolog.Logger, sessionID, dataURL string) {
	image, err := face.DecodeDataURL(dataURL)
	if err != nil {
		ws.WriteError(conn, "image must be a base64 data URL")
		return
	}
	if err := h.photoService.CheckImage(image); err != nil {
		ws.WriteError(conn, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := h.attendanceService.LiveFrame(ctx, sessionID, image)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) {
			ws.WriteError(conn, "invalid image")
			return
		}
		wsLog.Error().Err(err).Msg("Live frame failed")
		ws.WriteError(conn, "frame processing failed")
		return
	}
	ws.WriteTyped(conn, ws.MatchedResponse{Event: ws.EventMatched, LiveFrameResult: *result})
}

// handleFinish persists the session and reports whether it was saved.
func (h *WSHandler) handleFinish(conn *websocket.Conn, wsLog zerolog.Logger, sessionID string, lecturerID, qualificationID, moduleID int) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := h.attendanceService.FinishLive(ctx, sessionID, lecturerID, qualificationID, moduleID)
	if err != nil {
		wsLog.Error().Err(err).Msg("Saving live session failed")
		ws.WriteError(conn, "save failed")
		return false
	}

	wsLog.Info().Int("present", session.PresentCount).Msg("Live session saved")
	ws.WriteTyped(conn, ws.SavedResponse{Event: ws.EventSaved, Session: session})
	return true
}
