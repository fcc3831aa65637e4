package api

import (
	"fmt"
	"net/http"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ClientHandler bundles the client-facing endpoints: coach browsing,
// subscriptions, plan reads, the progress journal and the meal bank.
type ClientHandler struct {
	subscriptionService service.SubscriptionService
	planService         service.PlanService
	progressService     service.ProgressService
	profileService      service.ProfileService
	videoService        service.VideoService
	logger              *zap.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(
	subscriptionService service.SubscriptionService,
	planService service.PlanService,
	progressService service.ProgressService,
	profileService service.ProfileService,
	videoService service.VideoService,
	logger *zap.Logger,
) *ClientHandler {
	return &ClientHandler{
		subscriptionService: subscriptionService,
		planService:         planService,
		progressService:     progressService,
		profileService:      profileService,
		videoService:        videoService,
		logger:              logger,
	}
}

// --- Request/Response Structs ---

type MealRequest struct {
	Name     string `json:"name" binding:"required"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Calories string `json:"calories"`
}

type RecordProgressRequest struct {
	Date   string        `json:"date" binding:"required"`
	Meals  []MealRequest `json:"meals"`
	Weight *float64      `json:"weight"`
}

type ExerciseLogRequest struct {
	Name          string `json:"name" binding:"required"`
	SetsCompleted int    `json:"setsCompleted"`
	RepsCompleted int    `json:"repsCompleted"`
}

type WorkoutLogRequest struct {
	Title     string               `json:"title" binding:"required"`
	Exercises []ExerciseLogRequest `json:"exercises"`
}

type RecordWorkoutProgressRequest struct {
	Date     string              `json:"date" binding:"required"`
	Workouts []WorkoutLogRequest `json:"workouts" binding:"required"`
}

func mapMeals(meals []MealRequest) []domain.Meal {
	out := make([]domain.Meal, len(meals))
	for i, m := range meals {
		out[i] = domain.Meal{
			Name:     m.Name,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
			Calories: m.Calories,
		}
	}
	return out
}

func mapWorkoutLogs(workouts []WorkoutLogRequest) []domain.WorkoutLog {
	out := make([]domain.WorkoutLog, len(workouts))
	for i, w := range workouts {
		exercises := make([]domain.ExerciseLog, len(w.Exercises))
		for j, ex := range w.Exercises {
			exercises[j] = domain.ExerciseLog{
				Name:          ex.Name,
				SetsCompleted: ex.SetsCompleted,
				RepsCompleted: ex.RepsCompleted,
			}
		}
		out[i] = domain.WorkoutLog{Title: w.Title, Exercises: exercises}
	}
	return out
}

// --- Coach browsing & subscriptions ---

// BrowseCoaches lists all coach profiles. Store failure degrades to an
// empty list so the browse page still renders.
func (h *ClientHandler) BrowseCoaches(c *gin.Context) {
	profiles, err := h.profileService.ListCoaches(c.Request.Context())
	if err != nil {
		h.logger.Warn("coach browse read failed, returning empty list", zap.Error(err))
		c.JSON(http.StatusOK, []domain.CoachProfile{})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetCoachProfile returns one coach's public profile.
func (h *ClientHandler) GetCoachProfile(c *gin.Context) {
	coachID, err := primitive.ObjectIDFromHex(c.Param("coachId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid coach ID format")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), coachID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMyCoaches resolves the client's active subscriptions to coach profiles.
func (h *ClientHandler) GetMyCoaches(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	profiles, err := h.subscriptionService.ListCoachesForClient(c.Request.Context(), clientID)
	if err != nil {
		h.logger.Warn("subscribed coach read failed, returning empty list", zap.Error(err))
		c.JSON(http.StatusOK, []domain.CoachProfile{})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// Subscribe creates or reactivates the relationship with a coach.
func (h *ClientHandler) Subscribe(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	coachID, err := primitive.ObjectIDFromHex(c.Param("coachId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid coach ID format")
		return
	}

	rel, err := h.subscriptionService.Subscribe(c.Request.Context(), coachID, clientID, clientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

// Unsubscribe cancels the relationship with a coach.
func (h *ClientHandler) Unsubscribe(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	coachID, err := primitive.ObjectIDFromHex(c.Param("coachId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid coach ID format")
		return
	}

	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), coachID, clientID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Plans (read side) ---

// GetPlans lists the plans a coach created under one of the client's
// relationships. A canceled or never-created relationship yields an empty
// list.
func (h *ClientHandler) GetPlans(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plans, err := h.planService.ListPlans(
		c.Request.Context(),
		clientID,
		c.Param("relationshipId"),
		domain.PlanKind(c.Param("kind")),
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// --- Progress journal ---

// RecordProgress merges meals and weight into the day's entry.
func (h *ClientHandler) RecordProgress(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.progressService.RecordProgress(c.Request.Context(), clientID, req.Date, mapMeals(req.Meals), req.Weight); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordWorkoutProgress appends completed workouts to the day's entry.
func (h *ClientHandler) RecordWorkoutProgress(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req RecordWorkoutProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.progressService.RecordWorkoutProgress(c.Request.Context(), clientID, req.Date, mapWorkoutLogs(req.Workouts)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProgress returns the full journal ascending by date. Store failure
// degrades to an empty list so the chart view still renders.
func (h *ClientHandler) GetProgress(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	entries, err := h.progressService.GetProgress(c.Request.Context(), clientID)
	if err != nil {
		h.logger.Warn("progress read failed, returning empty list", zap.Error(err))
		c.JSON(http.StatusOK, []domain.ProgressEntry{})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetProgressForDate returns one day's entry, or 404 when absent.
func (h *ClientHandler) GetProgressForDate(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	entry, err := h.progressService.GetProgressForDate(c.Request.Context(), clientID, c.Param("date"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if entry == nil {
		abortWithError(c, http.StatusNotFound, "No progress recorded for this date")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetProgressSummary returns entries with aggregated macro totals.
func (h *ClientHandler) GetProgressSummary(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	summaries, err := h.progressService.Summarize(c.Request.Context(), clientID)
	if err != nil {
		h.logger.Warn("progress summary read failed, returning empty list", zap.Error(err))
		c.JSON(http.StatusOK, []service.DaySummary{})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// --- Meal bank ---

// SaveMealToBank appends a reusable meal.
func (h *ClientHandler) SaveMealToBank(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.progressService.SaveMealToBank(c.Request.Context(), clientID, domain.Meal{
		Name:     req.Name,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Calories: req.Calories,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetMealBank lists the client's saved meals.
func (h *ClientHandler) GetMealBank(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	entries, err := h.progressService.ListMealBank(c.Request.Context(), clientID)
	if err != nil {
		h.logger.Warn("meal bank read failed, returning empty list", zap.Error(err))
		c.JSON(http.StatusOK, []domain.MealBankEntry{})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// --- Coach videos ---

// GetCoachVideos lists a subscribed coach's video library.
func (h *ClientHandler) GetCoachVideos(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	coachID, err := primitive.ObjectIDFromHex(c.Param("coachId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid coach ID format")
		return
	}

	videos, err := h.videoService.ListForClient(c.Request.Context(), clientID, coachID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}
