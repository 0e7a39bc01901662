package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"habitdash/internal/model"
	"habitdash/internal/store"
)

type createIn struct {
	Action   string `json:"action"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Time     string `json:"time"`
}

type updateIn struct {
	Endpoint  string `json:"endpoint"`
	ID        int64  `json:"id"`
	Completed *bool  `json:"completed"`
	Progress  *int   `json:"progress"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePreflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Max-Age", "86400")
	c.Status(http.StatusOK)
}

func (s *Server) handleGet(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	switch c.DefaultQuery("endpoint", "goals") {
	case "goals", "":
		goals, err := s.store.ListGoals(ctx)
		if err != nil {
			s.writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"goals": goals})
	case "tasks":
		tasks, err := s.store.ListTasks(ctx)
		if err != nil {
			s.writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endpoint"})
	}
}

func (s *Server) handlePost(c *gin.Context) {
	var in createIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if in.Action != "add_goal" && in.Action != "add_task" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	var (
		id  int64
		err error
		msg string
	)
	if in.Action == "add_goal" {
		id, err = s.store.AddGoal(ctx, in.Title, in.Category)
		msg = "Goal added successfully"
	} else {
		id, err = s.store.AddTask(ctx, in.Title, in.Time)
		msg = "Task added successfully"
	}
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": msg})
}

func (s *Server) handlePut(c *gin.Context) {
	var in updateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if in.ID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	var err error
	switch in.Endpoint {
	case "goal":
		if in.Progress != nil && (*in.Progress < model.MinProgress || *in.Progress > model.MaxProgress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Progress must be between 0 and 100"})
			return
		}
		err = s.store.UpdateGoal(ctx, in.ID, store.GoalUpdate{Completed: in.Completed, Progress: in.Progress})
	case "task":
		if in.Completed == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing completed"})
			return
		}
		err = s.store.SetTaskCompleted(ctx, in.ID, *in.Completed)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endpoint"})
		return
	}
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
}

func (s *Server) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", "method", c.Request.Method, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
