package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserType  string `json:"user_type"`
}

type updateRequest struct {
	Email        string `json:"email"`
	NewEmail     string `json:"new_email"`
	NewPassword  string `json:"new_password"`
	NewFirstName string `json:"new_first_name"`
	NewLastName  string `json:"new_last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	u, err := s.services.Users.Register(c.Request.Context(), services.RegisterInput(req))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("%s has been successfully registered as an %s", u.FullName(), u.UserType),
		"user": gin.H{
			"id":         u.ID,
			"email":      u.Email,
			"created_at": u.CreatedAt,
		},
	})
}

func (s *Server) updateUser(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	u, err := s.services.Users.Update(c.Request.Context(), services.UpdateInput(req))
	if err != nil {
		// an unknown account is a bad request here, not a missing route
		if errors.Is(err, common.ErrUserNotFound) {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User information updated successfully",
		"updated_user": gin.H{
			"id":         u.ID,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"updated_at": u.UpdatedAt,
		},
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	res, err := s.services.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You have successfully logged into your account",
		"user": gin.H{
			"id":           res.User.ID,
			"email":        res.User.Email,
			"access_token": res.AccessToken,
			"is_admin":     res.User.IsAdmin,
		},
	})
}

func (s *Server) me(c *gin.Context) {
	u, err := s.services.Users.GetUser(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         u.ID,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"user_type":  u.UserType,
			"is_admin":   u.IsAdmin,
			"created_at": u.CreatedAt,
			"updated_at": u.UpdatedAt,
		},
	})
}
