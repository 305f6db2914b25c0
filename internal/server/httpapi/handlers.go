package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type textRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"threadId"`
}

type sessionResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    models.Identity `json:"user"`
}

type threadListItem struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Messages []models.Message `json:"messages"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "All fields required."})
		return
	}

	sess, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err, "Server error.")
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{Message: "Registered successfully.", Token: sess.Token, User: sess.User})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Email and password required."})
		return
	}

	sess, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err, "Server error.")
		return
	}

	c.JSON(http.StatusOK, sessionResponse{Message: "Login successful.", Token: sess.Token, User: sess.User})
}

func (s *Server) handleProfile(c *gin.Context) {
	id := identity(c)
	c.JSON(http.StatusOK, gin.H{"message": "Welcome, " + id.Name, "user": id})
}

func (s *Server) handleListThreads(c *gin.Context) {
	threads, err := s.threads.List(c.Request.Context(), identity(c).ID)
	if err != nil {
		s.writeError(c, err, "Failed to fetch chat threads.")
		return
	}

	out := make([]threadListItem, 0, len(threads))
	for _, t := range threads {
		out = append(out, threadListItem{ID: t.ID, Title: t.Title, Messages: []models.Message{}})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetThread(c *gin.Context) {
	th, err := s.threads.Get(c.Request.Context(), identity(c).ID, c.Param("threadId"))
	if err != nil {
		s.writeError(c, err, "Failed to fetch thread messages.")
		return
	}
	c.JSON(http.StatusOK, th)
}

func (s *Server) handleDeleteThread(c *gin.Context) {
	threadID := c.Param("threadId")

	_, err := s.threads.Delete(c.Request.Context(), identity(c).ID, threadID)
	if err != nil {
		if errors.Is(err, common.ErrInvalidUserID) {
			c.JSON(http.StatusUnauthorized, errorBody{Message: "Authentication failed: Invalid User ID."})
			return
		}
		s.writeError(c, err, "Failed to delete thread.")
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "Thread " + threadID + " deleted successfully."})
}

func (s *Server) handleText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.exchange("text", "invalid")
		c.JSON(http.StatusBadRequest, errorBody{Message: "Message and threadId fields are required."})
		return
	}

	reply, err := s.chats.SendText(c.Request.Context(), identity(c).ID, req.ThreadID, req.Message)
	if err != nil {
		s.metrics.exchange("text", outcome(err))
		s.writeError(c, err, "Gemini Text API failed.")
		return
	}

	s.metrics.exchange("text", "ok")
	c.JSON(http.StatusOK, replyResponse{Reply: reply})
}

func (s *Server) handleImage(c *gin.Context) {
	threadID := c.PostForm("threadId")
	prompt := c.PostForm("prompt")

	var (
		image    []byte
		mimeType string
	)
	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size > s.opts.MaxImageBytes {
			s.metrics.exchange("image", "invalid")
			c.JSON(http.StatusRequestEntityTooLarge, errorBody{Message: "Image file too large."})
			return
		}

		f, err := fh.Open()
		if err != nil {
			s.writeError(c, err, "Gemini Vision API failed.")
			return
		}
		image, err = io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			s.writeError(c, err, "Gemini Vision API failed.")
			return
		}
		mimeType = fh.Header.Get("Content-Type")
	}

	reply, err := s.chats.SendImage(c.Request.Context(), identity(c).ID, threadID, image, mimeType, prompt)
	if err != nil {
		s.metrics.exchange("image", outcome(err))
		s.writeError(c, err, "Gemini Vision API failed.")
		return
	}

	s.metrics.exchange("image", "ok")
	c.JSON(http.StatusOK, replyResponse{Reply: reply})
}

func outcome(err error) string {
	switch {
	case errors.Is(err, common.ErrGateway):
		return "gateway_error"
	case errors.Is(err, common.ErrPersistence):
		return "persist_error"
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrorUnauthorized):
		return "invalid"
	}
	return "error"
}
