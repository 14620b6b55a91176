// Package controllers provides HTTP handlers for the admin console.
// File: controllers/admin_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-footy-trivia/logger"
	"go-footy-trivia/metrics"
	"go-footy-trivia/models"
	"go-footy-trivia/services"
	"go-footy-trivia/store"
)

// ---------------- Admin Controller ----------------

// AdminController composes the per-collection editors into the console. The
// role gate itself lives in middleware.AdminRequired; by the time a handler
// runs, the request is known to come from an admin.
type AdminController struct {
	Users        *services.Editor
	Questions    *services.Editor
	Competitions *services.Editor
}

// NewAdminController initializes a new instance of AdminController.
func NewAdminController(users, questions, competitions *services.Editor) *AdminController {
	return &AdminController{
		Users:        users,
		Questions:    questions,
		Competitions: competitions,
	}
}

// editor resolves the :collection route param to its editor.
func (ac *AdminController) editor(c *gin.Context) (*services.Editor, bool) {
	switch c.Param("collection") {
	case store.CollectionUsers:
		return ac.Users, true
	case store.CollectionQuestions:
		return ac.Questions, true
	case store.CollectionCompetitions:
		return ac.Competitions, true
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown collection"})
		return nil, false
	}
}

// ---------------- console pages ----------------

// Dashboard renders the admin landing page with collection counts.
func (ac *AdminController) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"UserCount":        ac.Users.Cache().Len(),
		"QuestionCount":    ac.Questions.Cache().Len(),
		"CompetitionCount": ac.Competitions.Cache().Len(),
	})
}

// ShowUsers renders the registered-users screen. The collection is refetched
// on every page view (the store's return order is not stable, so the cache
// is replaced wholesale); a fetch failure falls back to the stale cache with
// a notice.
func (ac *AdminController) ShowUsers(c *gin.Context) {
	loadErr := ac.Users.Load(c.Request.Context())

	query := c.Query("q")
	roleFacet := facetOr(c.Query("role"))
	view := ac.Users.View(query, map[string]string{"role": roleFacet})

	rows := make([]gin.H, 0, len(view))
	for _, d := range view {
		identity, err := models.DecodeIdentity(d)
		if err != nil {
			logger.Warn.Printf("ShowUsers: skipping record with no id: %v", err)
			continue
		}
		rows = append(rows, gin.H{
			"Identity":    identity,
			"EditState":   ac.Users.EditState(identity.ID),
			"DeleteState": ac.Users.DeleteState(identity.ID),
		})
	}

	data := gin.H{
		"Rows":  rows,
		"Query": query,
		"Role":  roleFacet,
		"Roles": []string{services.FacetAll, models.RoleUser, models.RoleAdmin},
	}
	if loadErr != nil {
		data["Error"] = "Failed to load users; showing the last known list."
	}
	c.HTML(http.StatusOK, "admin_users.html", data)
}

// ShowQuestions renders the question bank with search plus category and
// difficulty facets.
func (ac *AdminController) ShowQuestions(c *gin.Context) {
	loadErr := ac.Questions.Load(c.Request.Context())

	query := c.Query("q")
	category := facetOr(c.Query("category"))
	difficulty := facetOr(c.Query("difficulty"))
	view := ac.Questions.View(query, map[string]string{
		"category":   category,
		"difficulty": difficulty,
	})

	rows := make([]gin.H, 0, len(view))
	for _, d := range view {
		q, err := models.DecodeQuestion(d)
		if err != nil {
			logger.Warn.Printf("ShowQuestions: skipping record with no id: %v", err)
			continue
		}
		id := strconv.Itoa(q.ID)
		rows = append(rows, gin.H{
			"Question":    q,
			"EditState":   ac.Questions.EditState(id),
			"DeleteState": ac.Questions.DeleteState(id),
		})
	}

	data := gin.H{
		"Rows":         rows,
		"Query":        query,
		"Category":     category,
		"Categories":   services.Categories(ac.Questions.Cache().Items(), "category"),
		"Difficulty":   difficulty,
		"Difficulties": append([]string{services.FacetAll}, models.Difficulties...),
	}
	if loadErr != nil {
		data["Error"] = "Failed to load questions; showing the last known list."
	}
	c.HTML(http.StatusOK, "admin_questions.html", data)
}

// ShowCompetitions renders the competitions screen.
func (ac *AdminController) ShowCompetitions(c *gin.Context) {
	loadErr := ac.Competitions.Load(c.Request.Context())

	query := c.Query("q")
	status := facetOr(c.Query("status"))
	view := ac.Competitions.View(query, map[string]string{"status": status})

	rows := make([]gin.H, 0, len(view))
	for _, d := range view {
		comp, err := models.DecodeCompetition(d)
		if err != nil {
			logger.Warn.Printf("ShowCompetitions: skipping record with no id: %v", err)
			continue
		}
		rows = append(rows, gin.H{
			"Competition": comp,
			"EditState":   ac.Competitions.EditState(comp.ID),
			"DeleteState": ac.Competitions.DeleteState(comp.ID),
		})
	}

	data := gin.H{
		"Rows":     rows,
		"Query":    query,
		"Status":   status,
		"Statuses": append([]string{services.FacetAll}, models.Statuses...),
	}
	if loadErr != nil {
		data["Error"] = "Failed to load competitions; showing the last known list."
	}
	c.HTML(http.StatusOK, "admin_competitions.html", data)
}

// ---------------- edit lifecycle endpoints ----------------

// StartEdit opens a row for inline editing.
func (ac *AdminController) StartEdit(c *gin.Context) {
	ed, ok := ac.editor(c)
	if !ok {
		return
	}
	id := c.PostForm("id")
	if err := ed.StartEdit(id); err != nil {
		respondEditorError(c, err)
		return
	}
	draft, _ := ed.Draft(id)
	c.JSON(http.StatusOK, gin.H{"state": ed.EditState(id), "draft": draft})
}

// EditField mutates one field of the row's draft. Invalid numeric input is
// rejected here, before any remote call, and the draft field stays unchanged.
func (ac *AdminController) EditField(c *gin.Context) {
	ed, ok := ac.editor(c)
	if !ok {
		return
	}
	id := c.PostForm("id")
	field := c.PostForm("field")
	value := c.PostForm("value")
	if err := ed.SetField(id, field, value); err != nil {
		respondEditorError(c, err)
		return
	}
	draft, _ := ed.Draft(id)
	c.JSON(http.StatusOK, gin.H{"state": ed.EditState(id), "draft": draft})
}

// SaveEdit commits the draft: remote merge-write first, cache second.
func (ac *AdminController) SaveEdit(c *gin.Context) {
	ed, ok := ac.editor(c)
	if !ok {
		return
	}
	id := c.PostForm("id")
	if err := ed.Commit(c.Request.Context(), id); err != nil {
		metrics.PublishConsoleRemoteError(ed.Collection())
		respondEditorError(c, err)
		return
	}
	metrics.PublishConsoleCommit(ed.Collection())
	c.JSON(http.StatusOK, gin.H{"state": ed.EditState(id)})
}

// CancelEdit discards the draft with no remote call.
func (ac *AdminController) CancelEdit(c *gin.Context) {
	ed, ok := ac.editor(c)
	if !ok {
		return
	}
	id := c.PostForm("id")
	if err := ed.CancelEdit(id); err != nil {
		respondEditorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": ed.EditState(id)})
}

// ---------------- delete lifecycle endpoints ----------------

// RequestDelete opens the delete confirmation for a row.
func (ac *AdminController) RequestDelete(c *gin.Context) {
	ed, ok := ac.editor(c)
	if !ok {
		return
	}
	id := c.PostForm("id")
	if err := ed.RequestDelete(id); err != nil {
		respondEditorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleteState": ed.DeleteState(id)})
}

// ConfirmDelete performs the remote delete. On failure the row stays in
// PendingConfirm and the entity remains cached.
func (ac *AdminController) ConfirmDelete(c *gin.Context) {
	ed, ok := ac.editor(c)
	if !ok {
		return
	}
	id := c.PostForm("id")
	if err := ed.ConfirmDelete(c.Request.Context(), id); err != nil {
		metrics.PublishConsoleRemoteError(ed.Collection())
		respondEditorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleteState": ed.DeleteState(id)})
}

// CancelDelete closes the confirmation with no remote call.
func (ac *AdminController) CancelDelete(c *gin.Context) {
	ed, ok := ac.editor(c)
	if !ok {
		return
	}
	id := c.PostForm("id")
	if err := ed.CancelDelete(id); err != nil {
		respondEditorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleteState": ed.DeleteState(id)})
}

// ---------------- creation endpoints ----------------

// Add dispatches creation per collection: the question bank uses the
// optimistic create-then-edit flow, competitions are created remote-first,
// and users are only ever created through signup.
func (ac *AdminController) Add(c *gin.Context) {
	switch c.Param("collection") {
	case store.CollectionQuestions:
		ac.AddQuestion(c)
	case store.CollectionCompetitions:
		ac.CreateCompetition(c)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Creation not supported for this collection"})
	}
}

// AddQuestion inserts a placeholder question with the next local id and
// opens it directly in edit state. No remote write happens until the row is
// saved.
func (ac *AdminController) AddQuestion(c *gin.Context) {
	nextID := models.NextQuestionID(ac.Questions.Cache().Items())
	placeholder := models.NewPlaceholderQuestion(nextID)

	id, err := ac.Questions.AddRow(placeholder.Doc())
	if err != nil {
		respondEditorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    id,
		"state": ac.Questions.EditState(id),
	})
}

// CreateCompetition creates a fully formed competition remote-first. New
// competitions always start Scheduled regardless of the submitted form.
func (ac *AdminController) CreateCompetition(c *gin.Context) {
	players := 0
	if raw := c.PostForm("players"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "players must be a whole number of zero or more"})
			return
		}
		players = n
	}

	comp := models.Competition{
		ID:            uuid.NewString(),
		League:        c.PostForm("league"),
		ScheduledTime: c.PostForm("scheduledTime"),
		EntryFee:      c.PostForm("entryFee"),
		Players:       players,
		Status:        models.StatusScheduled,
	}
	if comp.League == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "league is required"})
		return
	}

	if err := ac.Competitions.Create(c.Request.Context(), comp.Doc()); err != nil {
		metrics.PublishConsoleRemoteError(ac.Competitions.Collection())
		respondEditorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": comp.ID, "status": comp.Status})
}

// CompetitionQR serves the invite QR code for a competition's join page.
func (ac *AdminController) CompetitionQR(c *gin.Context) {
	id := c.Param("id")
	if _, ok := ac.Competitions.Cache().Get(id); !ok {
		c.String(http.StatusNotFound, "Competition not found")
		return
	}
	png, err := services.GenerateCompetitionQR(id, 256)
	if err != nil {
		logger.Error.Printf("CompetitionQR: %v", err)
		c.String(http.StatusInternalServerError, "Could not generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// ---------------- helpers ----------------

func facetOr(v string) string {
	if v == "" {
		return services.FacetAll
	}
	return v
}

// respondEditorError maps service failures onto HTTP statuses. Remote
// failures return 502: the row is left in a re-triable state and the page's
// toast already carries the reason.
func respondEditorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoSuchRow):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRowBusy), errors.Is(err, services.ErrNotEditing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case store.Retriable(err), errors.Is(err, store.ErrValidationRejected):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
