package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/gin-gonic/gin"
)

const msgInvalidUserQuery = "Authentication failed: Invalid User ID for database query."

type errorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// writeError maps a service error to its status and body. serverMsg is the
// route's message for unexpected failures; gateway and persistence failures
// carry the error text in details.
func (s *Server) writeError(c *gin.Context, err error, serverMsg string) {
	status, body := classify(err, serverMsg)
	if status >= http.StatusInternalServerError {
		s.log.Error(c.Request.Context(), serverMsg, "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(status, body)
}

func classify(err error, serverMsg string) (int, errorBody) {
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorBody{Message: ve.Message}
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, errorBody{Message: "Email already registered."}
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusUnauthorized, errorBody{Message: "User not found."}
	case errors.Is(err, common.ErrIncorrectPassword):
		return http.StatusUnauthorized, errorBody{Message: "Incorrect password."}
	case errors.Is(err, common.ErrInvalidUserID):
		return http.StatusUnauthorized, errorBody{Message: msgInvalidUserQuery}
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, errorBody{Message: "Invalid or expired token."}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorBody{Message: "Thread not found or already deleted."}
	case errors.Is(err, common.ErrGateway), errors.Is(err, common.ErrPersistence):
		return http.StatusInternalServerError, errorBody{Message: serverMsg, Details: err.Error()}
	default:
		return http.StatusInternalServerError, errorBody{Message: serverMsg}
	}
}
