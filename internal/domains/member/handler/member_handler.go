package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"membership-backend/internal/domains/member"
	"membership-backend/internal/shared/response"
	"membership-backend/pkg/logger"
)

// deleteWarning matches the flash message shown when a delete fails; the
// listing is still rendered either way.
const deleteWarning = "There was a problem deleting that record, please try again!"

// MemberHandler adapts the registration workflow onto the HTTP surface.
// Stateless; holds dependencies only.
type MemberHandler struct {
	service  member.Service
	imageDir string
}

func NewMemberHandler(service member.Service, imageDir string) *MemberHandler {
	return &MemberHandler{
		service:  service,
		imageDir: imageDir,
	}
}

// ========================================
// REGISTRATION
// ========================================

// Choices handles GET /register: the static choice lists a client needs to
// build the registration form.
func (h *MemberHandler) Choices(c *gin.Context) {
	response.Success(c, http.StatusOK, member.Choices())
}

// Register handles POST /register. On success the client is redirected to the
// photo step for the new id, mirroring the two-step registration flow.
func (h *MemberHandler) Register(c *gin.Context) {
	var req member.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/upload/%d", dto.ID))
}

// ========================================
// PHOTO WORKFLOW
// ========================================

// UploadPrompt handles GET /upload/:id: the personalized upload prompt.
func (h *MemberHandler) UploadPrompt(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}

	dto, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"first_name": dto.FirstName,
		"uploaded":   dto.PhotoKey != nil,
	})
}

// UploadPhoto handles POST /upload/:id: accepts exactly one file and hands
// the raw bytes to object storage.
func (h *MemberHandler) UploadPhoto(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "NO_FILE", member.ErrNoFileUploaded.Error())
		return
	}

	data, contentType, err := readUpload(fileHeader)
	if err != nil {
		response.BadRequest(c, "could not read uploaded file")
		return
	}

	dto, err := h.service.AttachPhoto(c.Request.Context(), id, fileHeader.Filename, data, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"first_name": dto.FirstName,
		"photo_key":  dto.PhotoKey,
	})
}

// ========================================
// UPDATE / DELETE / LISTING
// ========================================

// EditForm handles GET /update/:id: the current row, for pre-populating the
// edit form.
func (h *MemberHandler) EditForm(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}

	dto, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Update handles POST /update/:id: all fields rewritten, plus an optional
// replacement image saved to the local image directory.
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}

	var req member.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		if err := h.saveLocalImage(fileHeader, req); err != nil {
			h.handleError(c, err)
			return
		}
	}

	dto, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		// Persistence failure leaves the prior row as the visible outcome;
		// hand it back so the edit form can be redisplayed.
		if !isClientError(err) {
			prior, _ := h.service.Get(c.Request.Context(), id)
			logger.Error("member update failed", err)
			response.ErrorWithDetails(c, http.StatusInternalServerError, "UPDATE_FAILED",
				"could not save changes, please try again", gin.H{"member": prior})
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Delete handles GET /delete/:id. Failures (including a missing id) degrade
// to a warning; the caller is shown the current listing either way.
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}

	warning := ""
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		logger.Warn("member delete failed", map[string]interface{}{
			"member_id": id,
			"error":     err.Error(),
		})
		warning = deleteWarning
	}

	members, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	payload := gin.H{"members": members}
	if warning != "" {
		payload["warning"] = warning
	}
	response.Success(c, http.StatusOK, payload)
}

// List handles GET /members: the full listing ordered by registration date.
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// ========================================
// HELPERS
// ========================================

// memberID parses the :id path parameter. A malformed id can never name a
// member, so it surfaces as the same 404 a missing row would.
func (h *MemberHandler) memberID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c, member.ErrMemberNotFound.Error())
		return 0, false
	}
	return id, true
}

// saveLocalImage writes the replacement image under the configured directory
// as "<full name>.<ext>", removing a pre-existing file of the same name
// first.
func (h *MemberHandler) saveLocalImage(fileHeader *multipart.FileHeader, req member.RegisterRequest) error {
	ext, err := member.PhotoExtension(fileHeader.Filename)
	if err != nil {
		return err
	}

	data, _, err := readUpload(fileHeader)
	if err != nil {
		return fmt.Errorf("read uploaded file: %w", err)
	}

	if err := os.MkdirAll(h.imageDir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	name := member.LocalImageName(req.FirstName, req.MiddleName, req.LastName, ext)
	path := filepath.Join(h.imageDir, filepath.Base(name))

	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove previous image: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	return nil
}

// handleError maps domain errors onto HTTP outcomes. The error set is closed
// (see member/errors.go); anything outside it is a 500.
func (h *MemberHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED",
			"validation failed", member.FieldErrors(err))
		return
	}

	var dup *member.AlreadyRegisteredError
	if errors.As(err, &dup) {
		response.ErrorWithDetails(c, http.StatusConflict, "ALREADY_REGISTERED",
			"you are already registered", gin.H{"first_name": dup.FirstName})
		return
	}

	switch {
	case errors.Is(err, member.ErrMemberNotFound):
		response.NotFound(c, member.ErrMemberNotFound.Error())
	case errors.Is(err, member.ErrBadImageName):
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_FILENAME", member.ErrBadImageName.Error())
	case errors.Is(err, member.ErrPhotoUploadFailed):
		logger.Error("photo upload failed", err)
		response.ErrorResponse(c, http.StatusBadGateway, "UPLOAD_FAILED",
			"photo upload failed, please try again")
	case errors.Is(err, member.ErrEmailAlreadyExists):
		response.Conflict(c, member.ErrEmailAlreadyExists.Error())
	default:
		logger.Error("unhandled error", err)
		response.InternalServerError(c, "something went wrong")
	}
}

func isClientError(err error) bool {
	var verrs validation.Errors
	var dup *member.AlreadyRegisteredError
	return errors.As(err, &verrs) ||
		errors.As(err, &dup) ||
		errors.Is(err, member.ErrMemberNotFound) ||
		errors.Is(err, member.ErrEmailAlreadyExists) ||
		errors.Is(err, member.ErrBadImageName)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	return data, fileHeader.Header.Get("Content-Type"), nil
}
