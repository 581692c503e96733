// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/library"
)

func (s *Server) listSubjects(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Subjects())
}

func (s *Server) getSubject(c *gin.Context) {
	subject, ok := s.catalog.SubjectByID(c.Param("id"))
	if !ok {
		notFound(c, "subject")
		return
	}
	c.JSON(http.StatusOK, subject)
}

func (s *Server) addResource(c *gin.Context) {
	rt, err := library.ParseResourceType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}

	var draft library.ResourceDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := library.ValidateDraft(draft); err != nil {
		writeError(c, err)
		return
	}

	r, err := s.catalog.AddResource(c.Request.Context(), c.Param("id"), rt, draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) removeResource(c *gin.Context) {
	rt, err := library.ParseResourceType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.catalog.RemoveResource(c.Request.Context(), c.Param("id"), rt, c.Param("resourceId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) search(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Search(c.Request.Context(), c.Query("q")))
}

// openResource is the link opener: it records the download and redirects to
// the resource URL as stored.
func (s *Server) openResource(c *gin.Context) {
	rt, err := library.ParseResourceType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	subjectID, resourceID := c.Param("id"), c.Param("resourceId")
	r, ok := s.catalog.Resource(subjectID, rt, resourceID)
	if !ok {
		notFound(c, "resource")
		return
	}

	ev := s.activity.TrackDownload(c.Request.Context(), subjectID, rt, r.ID, r.Title)
	s.logger.Debug("download tracked", zap.String("event", ev.ID), zap.String("url", r.URL))
	c.Redirect(http.StatusFound, r.URL)
}

func (s *Server) listDownloads(c *gin.Context) {
	limit := library.MaxDownloads
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, s.activity.RecentDownloads(limit))
}

func (s *Server) searchHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.activity.SearchHistory())
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Stats())
}

type themeResponse struct {
	Mode         library.ThemeMode     `json:"mode"`
	CustomColors library.CustomColors  `json:"customColors"`
	Appearance   library.Appearance    `json:"appearance"`
	Themes       []library.ThemeOption `json:"themes"`
}

func (s *Server) themeState() themeResponse {
	return themeResponse{
		Mode:         s.prefs.Theme(),
		CustomColors: s.prefs.CustomColors(),
		Appearance:   s.prefs.Appearance(),
		Themes:       library.Themes(),
	}
}

func (s *Server) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, s.themeState())
}

func (s *Server) setTheme(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	mode, err := library.ParseThemeMode(req.Mode)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.prefs.SetTheme(c.Request.Context(), mode); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.themeState())
}

// setColors only accepts six-digit hex, which is what a color picker emits.
func (s *Server) setColors(c *gin.Context) {
	var colors library.CustomColors
	if err := c.ShouldBindJSON(&colors); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	var fields []library.FieldError
	if !library.IsHexColor(colors.Primary) {
		fields = append(fields, library.FieldError{Field: "primary", Message: "must be a #rrggbb color"})
	}
	if !library.IsHexColor(colors.PrimaryForeground) {
		fields = append(fields, library.FieldError{Field: "primaryForeground", Message: "must be a #rrggbb color"})
	}
	if len(fields) > 0 {
		writeError(c, &library.ValidationError{Errors: fields})
		return
	}
	if err := s.prefs.SetCustomColors(c.Request.Context(), colors); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.themeState())
}
