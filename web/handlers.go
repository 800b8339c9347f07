package web

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/draft"
	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/mentor"
	"github.com/amonks/guidex/metrics"
	"github.com/amonks/guidex/profile"
	"github.com/amonks/guidex/session"
	"github.com/gin-gonic/gin"
)

var errNoTimer = errors.New("focus timer is not available")

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func (s *Server) getDashboard(c *gin.Context, board *dashboard.Board) {
	c.JSON(http.StatusOK, board.View())
}

func (s *Server) listGoals(c *gin.Context, board *dashboard.Board) {
	view := board.View()
	switch c.Query("status") {
	case "active":
		c.JSON(http.StatusOK, view.Active)
	case "completed":
		c.JSON(http.StatusOK, view.Completed)
	default:
		c.JSON(http.StatusOK, append(view.Active, view.Completed...))
	}
}

type createGoalRequest struct {
	Title      string   `json:"title"`
	Deadline   string   `json:"deadline"`
	Category   string   `json:"category"`
	Milestones []string `json:"milestones"`
}

func (s *Server) createGoal(c *gin.Context, board *dashboard.Board) {
	var req createGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	composer := board.GoalComposer()
	if err := composer.Begin(); err != nil {
		writeError(c, err)
		return
	}
	if err := composer.Set(func(g *goal.Goal) {
		g.Title = req.Title
		g.Deadline = req.Deadline
		if req.Category != "" {
			g.Category = goal.Category(req.Category)
		}
		for _, milestone := range req.Milestones {
			g.Tasks = append(g.Tasks, goal.Task{Title: milestone})
		}
	}); err != nil {
		writeError(c, err)
		return
	}
	if err := composer.Commit(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goalView(composer.Committed()))
}

func goalView(g goal.Goal) dashboard.GoalView {
	return dashboard.GoalView{Goal: g, Progress: metrics.GoalProgress(g)}
}

func (s *Server) getGoal(c *gin.Context, board *dashboard.Board) {
	g, err := board.ResolveGoal(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalView(g))
}

type updateGoalRequest struct {
	Title    *string `json:"title"`
	Deadline *string `json:"deadline"`
	Category *string `json:"category"`
	Status   *string `json:"status"`
}

func (s *Server) updateGoal(c *gin.Context, board *dashboard.Board) {
	var req updateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	current, err := board.ResolveGoal(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	editor, err := board.GoalEditor(current.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := editor.Begin(); err != nil {
		writeError(c, err)
		return
	}
	if err := editor.Set(func(g *goal.Goal) {
		if req.Title != nil {
			g.Title = *req.Title
		}
		if req.Deadline != nil {
			g.Deadline = *req.Deadline
		}
		if req.Category != nil {
			g.Category = goal.Category(*req.Category)
		}
		if req.Status != nil {
			g.Status = goal.Status(*req.Status)
		}
	}); err != nil {
		writeError(c, err)
		return
	}
	if err := editor.Commit(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalView(editor.Committed()))
}

func (s *Server) deleteGoal(c *gin.Context, board *dashboard.Board) {
	current, err := board.ResolveGoal(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := board.DeleteGoal(c.Request.Context(), current.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addTaskRequest struct {
	Title string `json:"title"`
}

func (s *Server) addTask(c *gin.Context, board *dashboard.Board) {
	var req addTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	current, err := board.ResolveGoal(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	updated, err := board.AddMilestone(c.Request.Context(), current.ID, req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goalView(updated))
}

func (s *Server) toggleTask(c *gin.Context, board *dashboard.Board) {
	current, err := board.ResolveGoal(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	updated, err := board.ToggleTask(c.Request.Context(), current.ID, c.Param("task"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalView(updated))
}

func (s *Server) listEntries(c *gin.Context, board *dashboard.Board) {
	c.JSON(http.StatusOK, gin.H{
		"entries":    board.Entries(),
		"mood_trend": board.JournalTrend(metrics.JournalMoodWindow),
	})
}

type entryRequest struct {
	Content *string `json:"content"`
	Mood    *string `json:"mood"`
	Analyze bool    `json:"analyze"`
}

func (s *Server) createEntry(c *gin.Context, board *dashboard.Board) {
	var req entryRequest
	if !bindJSON(c, &req) {
		return
	}
	var content string
	var mood journal.Mood
	if req.Content != nil {
		content = *req.Content
	}
	if req.Mood != nil {
		mood = journal.ParseMood(*req.Mood)
	}
	entry, err := board.WriteEntry(c.Request.Context(), content, mood, req.Analyze)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) getEntry(c *gin.Context, board *dashboard.Board) {
	entry, err := board.Entry(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) updateEntry(c *gin.Context, board *dashboard.Board) {
	var req entryRequest
	if !bindJSON(c, &req) {
		return
	}
	editor, err := board.JournalEditor(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := editor.Begin(); err != nil {
		writeError(c, err)
		return
	}
	if err := editor.Set(func(e *journal.Entry) {
		if req.Content != nil {
			e.Content = *req.Content
		}
		if req.Mood != nil {
			e.Mood = journal.ParseMood(*req.Mood)
		}
	}); err != nil {
		writeError(c, err)
		return
	}
	if req.Analyze {
		if _, err := board.Analyze(c.Request.Context(), editor); err != nil {
			writeError(c, err)
			return
		}
	}
	if err := editor.Commit(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, editor.Committed())
}

func (s *Server) deleteEntry(c *gin.Context, board *dashboard.Board) {
	entry, err := board.Entry(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := board.DeleteEntry(c.Request.Context(), entry.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getProfile(c *gin.Context, board *dashboard.Board) {
	prof := board.Profile()
	prof.OverallProgress = metrics.OverallProgress(board.Goals())
	c.JSON(http.StatusOK, prof)
}

type profileRequest struct {
	Name     *string `json:"name"`
	Title    *string `json:"title"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Avatar   *string `json:"avatar"`
}

func (s *Server) updateProfile(c *gin.Context, board *dashboard.Board) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}
	editor := board.ProfileEditor()
	if err := editor.Begin(); err != nil {
		writeError(c, err)
		return
	}
	if err := editor.Set(func(p *profile.Profile) {
		assign(&p.Name, req.Name)
		assign(&p.Title, req.Title)
		assign(&p.Bio, req.Bio)
		assign(&p.Location, req.Location)
		assign(&p.Website, req.Website)
		assign(&p.Avatar, req.Avatar)
	}); err != nil {
		writeError(c, err)
		return
	}
	if err := editor.Commit(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, editor.Committed())
}

func assign(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

type interestRequest struct {
	Interest string `json:"interest"`
}

func (s *Server) addInterest(c *gin.Context, board *dashboard.Board) {
	var req interestRequest
	if !bindJSON(c, &req) {
		return
	}
	prof, err := board.AddInterest(c.Request.Context(), req.Interest)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prof)
}

func (s *Server) removeInterest(c *gin.Context, board *dashboard.Board) {
	prof, err := board.RemoveInterest(c.Request.Context(), c.Param("interest"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prof)
}

type focusResponse struct {
	session.Status
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Elapsed        string `json:"elapsed"`
}

func (s *Server) focusResponse(status session.Status) focusResponse {
	elapsed := status.ElapsedAt(s.opts.Now())
	return focusResponse{
		Status:         status,
		ElapsedSeconds: int64(elapsed.Seconds()),
		Elapsed:        session.FormatElapsed(elapsed),
	}
}

func (s *Server) focusStatus(c *gin.Context) {
	if s.opts.Timer == nil {
		writeStatusError(c, http.StatusServiceUnavailable, errNoTimer)
		return
	}
	status, err := s.opts.Timer.Status()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.focusResponse(status))
}

func (s *Server) focusStart(c *gin.Context) {
	if s.opts.Timer == nil {
		writeStatusError(c, http.StatusServiceUnavailable, errNoTimer)
		return
	}
	status, err := s.opts.Timer.Start()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.focusResponse(status))
}

func (s *Server) focusStop(c *gin.Context) {
	if s.opts.Timer == nil {
		writeStatusError(c, http.StatusServiceUnavailable, errNoTimer)
		return
	}
	elapsed, err := s.opts.Timer.Stop()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":           session.StateIdle,
		"elapsed_seconds": int64(elapsed.Seconds()),
		"elapsed":         session.FormatElapsed(elapsed),
	})
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (r promptRequest) validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &draft.ValidationError{Field: "prompt", Rule: "required"}
	}
	return nil
}

func (s *Server) mentorAsk(c *gin.Context) {
	var req promptRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(c, err)
		return
	}
	reply := s.opts.Insight.Complete(c.Request.Context(), strings.TrimSpace(req.Prompt))
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// mentorStream sends the reply as server-sent "chunk" events followed by
// one "done" event.
func (s *Server) mentorStream(c *gin.Context) {
	var req promptRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	chunks := s.opts.Insight.StreamComplete(c.Request.Context(), strings.TrimSpace(req.Prompt))
	next, stop := iter.Pull(chunks)
	defer stop()
	c.Stream(func(w io.Writer) bool {
		chunk, ok := next()
		if !ok {
			c.SSEvent("done", "")
			return false
		}
		c.SSEvent("chunk", chunk)
		return true
	})
}

type speechRequest struct {
	Text string `json:"text"`
}

func (s *Server) mentorSpeech(c *gin.Context) {
	var req speechRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, &draft.ValidationError{Field: "text", Rule: "required"})
		return
	}
	audio, ok := s.opts.Insight.SynthesizeSpeech(c.Request.Context(), req.Text)
	if !ok {
		writeStatusError(c, http.StatusServiceUnavailable, errors.New("speech is unavailable"))
		return
	}
	mimeType := audio.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.Data(http.StatusOK, mimeType, audio.Data)
}

func (s *Server) reportStats(c *gin.Context, board *dashboard.Board) {
	view := board.View()
	c.JSON(http.StatusOK, gin.H{
		"stats":         view.Stats,
		"weekly_effort": view.Effort,
		"mood_trend":    view.MoodTrend,
		"categories":    view.Categories,
	})
}

func (s *Server) generateReport(c *gin.Context, board *dashboard.Board) {
	name := board.Profile().Name
	report, err := mentor.GenerateReport(c.Request.Context(), s.opts.Insight, name, board.Goals())
	if err != nil {
		writeError(c, err)
		return
	}
	if c.Query("format") == "text" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", mentor.ExportFilename(report)))
		c.String(http.StatusOK, mentor.FormatReport(report, name, s.opts.Now()))
		return
	}
	c.JSON(http.StatusOK, report)
}

func writeStatusError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}
