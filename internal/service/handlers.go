package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maskrapp/spamguard/internal/check"
	"github.com/maskrapp/spamguard/internal/validation"
	"github.com/sirupsen/logrus"
)

func (s *Service) handleRegister(c *gin.Context) {
	req := check.FromHTTPRequest(c.Request)
	user := validation.UserData{
		Nickname:    c.PostForm("nickname"),
		FirstName:   c.PostForm("first_name"),
		LastName:    c.PostForm("last_name"),
		DisplayName: c.PostForm("display_name"),
	}

	response := s.validator.RunChecks(c.Request.Context(), s.newClient(), req, user)
	if response.Reject {
		c.JSON(http.StatusForbidden, gin.H{"allowed": false, "message": response.Reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": true})
}

// handleKeyForm is the background key sync: an empty key clears the stored
// one and still counts as a success.
func (s *Service) handleKeyForm(c *gin.Context) {
	key := c.PostForm(KeyFormField)
	result := s.newClient().SyncAccessKey(c.Request.Context(), key, false, true)
	c.JSON(http.StatusOK, result)
}

func (s *Service) handleStatus(c *gin.Context) {
	st, err := s.settings(s.newClient()).Status(c.Request.Context())
	if err != nil {
		logrus.Error("DB error(Status): ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "cannot read settings"})
		return
	}
	c.JSON(http.StatusOK, st)
}

type saveKeyRequest struct {
	AccessKey string `json:"cleantalk_access_key"`
}

func (s *Service) handleSaveKey(c *gin.Context) {
	var body saveKeyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	result, err := s.settings(s.newClient()).SaveAccessKey(c.Request.Context(), body.AccessKey)
	if err != nil {
		logrus.Error("DB error(SaveAccessKey): ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "cannot save settings"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type setEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Service) handleSetEnabled(c *gin.Context) {
	var body setEnabledRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "enabled is required"})
		return
	}
	if err := s.settings(s.newClient()).SetEnabled(c.Request.Context(), *body.Enabled); err != nil {
		logrus.Error("DB error(SetEnabled): ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "cannot save settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": *body.Enabled})
}
