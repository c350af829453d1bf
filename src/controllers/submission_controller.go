package controllers

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/activitylog"
	"Backend-Brokerflow/src/services/quotes"
	"Backend-Brokerflow/src/services/submissions"
	"Backend-Brokerflow/src/utils"
)

// CreateSubmission godoc
// @Summary      Create a new submission
// @Description  Register an insurance application at intake
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        body body submissions.CreateInput true "Submission fields"
// @Success      201  {object}  models.Submission
// @Failure      400  {object}  models.ErrorResponse
// @Router       /submissions [post]
func CreateSubmission(c *fiber.Ctx) error {
	var in submissions.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	// Agency users always create for their own agency.
	if agencyID := asString(c.Locals("agencyId")); agencyID != "" && asString(c.Locals("role")) == models.RoleAgency {
		in.AgencyID = agencyID
	}

	sub, err := submissions.Create(c.Context(), actorFromCtx(c), in)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// GetSubmission godoc
// @Summary      Get a submission with its quotes
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions/{id} [get]
func GetSubmission(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	sub, err := submissions.GetByID(c.Context(), id)
	if err != nil {
		return utils.RespondError(c, err)
	}

	quoteList, err := quotes.ListBySubmission(c.Context(), id)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"submission": sub,
		"quotes":     quoteList,
	})
}

// GetAllSubmissions godoc
// @Summary      List submissions
// @Description  Admins see everything; agency users see their own agency
// @Tags         submissions
// @Produce      json
// @Param        page   query  int  false  "Page number" default(1)
// @Param        limit  query  int  false  "Items per page" default(10)
// @Success      200  {object}  models.PaginatedResponse
// @Router       /submissions [get]
func GetAllSubmissions(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	params.Page, _ = strconv.Atoi(c.Query("page", strconv.Itoa(params.Page)))
	params.Limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(params.Limit)))

	var agencyFilter *primitive.ObjectID
	if asString(c.Locals("role")) == models.RoleAgency {
		if agencyID, err := primitive.ObjectIDFromHex(asString(c.Locals("agencyId"))); err == nil {
			agencyFilter = &agencyID
		}
	}

	subs, total, err := submissions.List(c.Context(), agencyFilter, params)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch submissions")
	}

	return c.JSON(models.NewPaginatedResponse(subs, total, params))
}

// RouteSubmission godoc
// @Summary      Route a submission to carriers
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200  {object}  models.Submission
// @Failure      409  {object}  models.ErrorResponse
// @Router       /submissions/{id}/route [post]
func RouteSubmission(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	sub, err := submissions.Route(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(sub)
}

type declineIn struct {
	Reason string `json:"reason,omitempty"`
}

// DeclineSubmission godoc
// @Summary      Decline a submission
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        id path string true "Submission ID"
// @Param        body body declineIn false "Decline reason"
// @Success      200  {object}  models.Submission
// @Failure      409  {object}  models.ErrorResponse
// @Router       /submissions/{id}/decline [post]
func DeclineSubmission(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	var in declineIn
	_ = c.BodyParser(&in)

	sub, err := submissions.Decline(c.Context(), actorFromCtx(c), id, in.Reason)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(sub)
}

// GetSubmissionTimeline godoc
// @Summary      Activity timeline for a submission
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID"
// @Param        page   query  int  false  "Page number" default(1)
// @Param        limit  query  int  false  "Items per page" default(10)
// @Success      200  {object}  models.PaginatedResponse
// @Router       /submissions/{id}/timeline [get]
func GetSubmissionTimeline(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	params := models.DefaultPagination()
	params.Page, _ = strconv.Atoi(c.Query("page", strconv.Itoa(params.Page)))
	params.Limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(params.Limit)))

	entries, total, err := activitylog.ListBySubmission(c.Context(), id, params)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch timeline")
	}

	return c.JSON(models.NewPaginatedResponse(entries, total, params))
}

const maxFinalDocumentSize = 20 << 20 // 20 MB

// UploadFinalDocument godoc
// @Summary      Upload a final policy document (post-bind)
// @Description  Slot is one of binder, policy, certificate; PDF only
// @Tags         submissions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path      string  true  "Submission ID"
// @Param        slot path      string  true  "Document slot"
// @Param        file formData  file    true  "PDF file"
// @Success      200  {object}  models.Submission
// @Failure      400  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Router       /submissions/{id}/final-documents/{slot} [post]
func UploadFinalDocument(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}
	slot := c.Params("slot")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Missing file")
	}
	if fileHeader.Size > maxFinalDocumentSize {
		return utils.HandleError(c, fiber.StatusBadRequest, "File exceeds the 20 MB limit")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.EqualFold(contentType, "application/pdf") {
		return utils.HandleError(c, fiber.StatusBadRequest, "Only PDF files are accepted")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Upload directory unavailable")
	}

	filename := uuid.NewString() + ".pdf"
	storedPath := filepath.Join(uploadDir, filename)
	if err := c.SaveFile(fileHeader, storedPath); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to store file")
	}

	sub, err := submissions.RecordFinalDocument(c.Context(), actorFromCtx(c), id, slot, "/files/"+filename)
	if err != nil {
		// A rejected record must not leave the stored file behind.
		if rmErr := os.Remove(storedPath); rmErr != nil {
			log.Println("⚠️ Failed to remove rejected upload:", rmErr)
		}
		return utils.RespondError(c, err)
	}
	return c.JSON(sub)
}
