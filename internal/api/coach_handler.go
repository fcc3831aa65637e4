package api

import (
	"fmt"
	"net/http"
	"time"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CoachHandler bundles the coach-facing endpoints: roster, plans, profile,
// media, videos and schedule.
type CoachHandler struct {
	subscriptionService service.SubscriptionService
	planService         service.PlanService
	profileService      service.ProfileService
	videoService        service.VideoService
	appointmentService  service.AppointmentService
	logger              *zap.Logger
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(
	subscriptionService service.SubscriptionService,
	planService service.PlanService,
	profileService service.ProfileService,
	videoService service.VideoService,
	appointmentService service.AppointmentService,
	logger *zap.Logger,
) *CoachHandler {
	return &CoachHandler{
		subscriptionService: subscriptionService,
		planService:         planService,
		profileService:      profileService,
		videoService:        videoService,
		appointmentService:  appointmentService,
		logger:              logger,
	}
}

// --- Request/Response Structs ---

type PlanItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Calories string `json:"calories"`
	Notes    string `json:"notes"`
}

type CreatePlanRequest struct {
	Title string            `json:"title" binding:"required"`
	Items []PlanItemRequest `json:"items"`
}

type SaveProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	AboutMe   string `json:"aboutMe"`
}

type RequestVideoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmVideoRequest struct {
	Name      string `json:"name" binding:"required"`
	Tag       string `json:"tag"`
	ObjectKey string `json:"objectKey" binding:"required"`
}

type AppointmentRequest struct {
	ClientID string    `json:"clientId"`
	Title    string    `json:"title" binding:"required"`
	StartsAt time.Time `json:"startsAt" binding:"required"`
	EndsAt   time.Time `json:"endsAt" binding:"required"`
	Notes    string    `json:"notes"`
}

func mapPlanItems(items []PlanItemRequest) []domain.PlanItem {
	out := make([]domain.PlanItem, len(items))
	for i, it := range items {
		out[i] = domain.PlanItem{
			Name:     it.Name,
			Sets:     it.Sets,
			Reps:     it.Reps,
			Protein:  it.Protein,
			Carbs:    it.Carbs,
			Fat:      it.Fat,
			Calories: it.Calories,
			Notes:    it.Notes,
		}
	}
	return out
}

// --- Roster ---

// GetClients returns the coach's active roster. A store failure degrades to
// an empty list so the roster view still renders.
func (h *CoachHandler) GetClients(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	rels, err := h.subscriptionService.ListClientsForCoach(c.Request.Context(), coachID)
	if err != nil {
		h.logger.Warn("roster read failed, returning empty list", zap.Error(err))
		c.JSON(http.StatusOK, []domain.Relationship{})
		return
	}
	c.JSON(http.StatusOK, rels)
}

// --- Plans ---

// CreatePlan creates a workout or diet plan under a relationship.
func (h *CoachHandler) CreatePlan(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.CreatePlan(
		c.Request.Context(),
		coachID,
		c.Param("relationshipId"),
		domain.PlanKind(c.Param("kind")),
		req.Title,
		mapPlanItems(req.Items),
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetPlans lists a relationship's plans of one kind.
func (h *CoachHandler) GetPlans(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plans, err := h.planService.ListPlans(
		c.Request.Context(),
		coachID,
		c.Param("relationshipId"),
		domain.PlanKind(c.Param("kind")),
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// UpdatePlan overwrites a plan's title and items.
func (h *CoachHandler) UpdatePlan(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.UpdatePlan(
		c.Request.Context(),
		coachID,
		c.Param("relationshipId"),
		domain.PlanKind(c.Param("kind")),
		planID,
		req.Title,
		mapPlanItems(req.Items),
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Profile & Media ---

// GetProfile returns the coach's own profile.
func (h *CoachHandler) GetProfile(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), coachID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfile upserts the coach-editable text fields.
func (h *CoachHandler) SaveProfile(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.SaveProfile(c.Request.Context(), coachID, &domain.CoachProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Location:  req.Location,
		AboutMe:   req.AboutMe,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadImage accepts a multipart image for the profile or gallery slot.
func (h *CoachHandler) UploadImage(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read uploaded image")
		return
	}
	defer file.Close()

	img, err := h.profileService.UploadImage(
		c.Request.Context(),
		coachID,
		service.ImageSlot(c.Query("slot")),
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

// RemoveImage detaches an image and deletes its blob.
func (h *CoachHandler) RemoveImage(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	storagePath := c.Query("storagePath")
	if err := h.profileService.RemoveImage(c.Request.Context(), coachID, storagePath); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Videos ---

// RequestVideoUpload issues a presigned PUT URL for a new library video.
func (h *CoachHandler) RequestVideoUpload(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req RequestVideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	grant, err := h.videoService.RequestUpload(c.Request.Context(), coachID, req.ContentType)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}

// ConfirmVideo records video metadata after the presigned upload finished.
func (h *CoachHandler) ConfirmVideo(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ConfirmVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	video, err := h.videoService.ConfirmUpload(c.Request.Context(), coachID, req.Name, req.Tag, req.ObjectKey)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// GetVideos lists the coach's video library. Store failure degrades to an
// empty list.
func (h *CoachHandler) GetVideos(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	videos, err := h.videoService.ListForCoach(c.Request.Context(), coachID)
	if err != nil {
		h.logger.Warn("video list read failed, returning empty list", zap.Error(err))
		c.JSON(http.StatusOK, []domain.VideoAsset{})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// GetVideoPlaybackURL returns a presigned GET URL for a video. Open to both
// roles; the service checks ownership or an active relationship.
func (h *CoachHandler) GetVideoPlaybackURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}

	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid video ID format")
		return
	}

	url, err := h.videoService.PlaybackURL(c.Request.Context(), userID, role, videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playbackUrl": url})
}

// DeleteVideo removes a video and its blob.
func (h *CoachHandler) DeleteVideo(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid video ID format")
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), coachID, videoID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Appointments ---

func (req *AppointmentRequest) clientObjectID() (*primitive.ObjectID, error) {
	if req.ClientID == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CreateAppointment adds a schedule entry.
func (h *CoachHandler) CreateAppointment(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	clientID, err := req.clientObjectID()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	appt, err := h.appointmentService.Create(c.Request.Context(), coachID, clientID, req.Title, req.StartsAt, req.EndsAt, req.Notes)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// GetAppointments lists the coach's schedule. Store failure degrades to an
// empty list.
func (h *CoachHandler) GetAppointments(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	appts, err := h.appointmentService.List(c.Request.Context(), coachID)
	if err != nil {
		h.logger.Warn("appointment list read failed, returning empty list", zap.Error(err))
		c.JSON(http.StatusOK, []domain.Appointment{})
		return
	}
	c.JSON(http.StatusOK, appts)
}

// UpdateAppointment overwrites a schedule entry.
func (h *CoachHandler) UpdateAppointment(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	apptID, err := primitive.ObjectIDFromHex(c.Param("appointmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	clientID, err := req.clientObjectID()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	appt, err := h.appointmentService.Update(c.Request.Context(), coachID, apptID, clientID, req.Title, req.StartsAt, req.EndsAt, req.Notes)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// DeleteAppointment removes a schedule entry.
func (h *CoachHandler) DeleteAppointment(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	apptID, err := primitive.ObjectIDFromHex(c.Param("appointmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	if err := h.appointmentService.Delete(c.Request.Context(), coachID, apptID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
