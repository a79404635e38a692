package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membership-backend/internal/domains/member"
	"membership-backend/internal/domains/member/service"
)

type fakeRepo struct {
	nextID    int64
	byID      map[int64]*member.Member
	deleteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, byID: map[int64]*member.Member{}}
}

func (f *fakeRepo) Create(ctx context.Context, m *member.Member) (int64, error) {
	id := f.nextID
	f.nextID++
	copied := *m
	copied.ID = id
	f.byID[id] = &copied
	return id, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id int64) (*member.Member, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	for _, m := range f.byID {
		if m.Email == email {
			copied := *m
			return &copied, nil
		}
	}
	return nil, member.ErrMemberNotFound
}

func (f *fakeRepo) Update(ctx context.Context, m *member.Member) error {
	if _, ok := f.byID[m.ID]; !ok {
		return member.ErrMemberNotFound
	}
	copied := *m
	f.byID[m.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return member.ErrMemberNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]member.Member, error) {
	out := make([]member.Member, 0, len(f.byID))
	for _, m := range f.byID {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeRepo) SetPhotoKey(ctx context.Context, id int64, key string) error {
	m, ok := f.byID[id]
	if !ok {
		return member.ErrMemberNotFound
	}
	m.PhotoKey = &key
	return nil
}

type fakeStorage struct {
	key     string
	deleted string
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.key = key
	return key, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.deleted = key
	return nil
}

func setupRouter(t *testing.T, repo *fakeRepo, storage *fakeStorage) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewMemberHandler(service.NewMemberService(repo, storage), t.TempDir())

	router := gin.New()
	router.GET("/register", h.Choices)
	router.POST("/register", h.Register)
	router.GET("/upload/:id", h.UploadPrompt)
	router.POST("/upload/:id", h.UploadPhoto)
	router.GET("/update/:id", h.EditForm)
	router.POST("/update/:id", h.Update)
	router.GET("/delete/:id", h.Delete)
	router.GET("/members", h.List)
	return router
}

func registerForm() url.Values {
	return url.Values{
		"title":       {"Brother"},
		"first_name":  {"John"},
		"middle_name": {"Quincy"},
		"last_name":   {"Doe"},
		"address":     {"12 Main Street"},
		"email":       {"john.doe@example.com"},
		"gender":      {"Male"},
		"birth_date":  {"1990-05-04"},
		"phone":       {"+14155552671"},
		"country":     {"United States"},
	}
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorPart(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	part, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "response must carry an error object")
	return part
}

func TestRegister_RedirectsToUpload(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	w := postForm(router, "/register", registerForm())

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/upload/1", w.Header().Get("Location"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	require.Equal(t, http.StatusSeeOther, postForm(router, "/register", registerForm()).Code)

	w := postForm(router, "/register", registerForm())
	assert.Equal(t, http.StatusConflict, w.Code)

	errObj := errorPart(t, decodeBody(t, w))
	assert.Equal(t, "ALREADY_REGISTERED", errObj["code"])

	details, ok := errObj["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "John", details["first_name"])
}

func TestRegister_ValidationFailure(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	form := registerForm()
	form.Set("phone", "4155552671") // no country calling code
	w := postForm(router, "/register", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	errObj := errorPart(t, decodeBody(t, w))
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])

	details, ok := errObj["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Invalid phone number", details["phone"])
}

func TestChoices(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["titles"])
	assert.NotEmpty(t, data["genders"])
	assert.NotEmpty(t, data["countries"])
}

func TestUploadPrompt_UnknownMember(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	for _, path := range []string{"/upload/999", "/upload/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "GET %s", path)
	}
}

func TestUploadPhoto(t *testing.T) {
	repo := newFakeRepo()
	storage := &fakeStorage{}
	router := setupRouter(t, repo, storage)

	require.Equal(t, http.StatusSeeOther, postForm(router, "/register", registerForm()).Code)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "selfie.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "John Quincy Doe 1.png", storage.key)

	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "John", data["first_name"])
	assert.Equal(t, "John Quincy Doe 1.png", data["photo_key"])
}

func TestUploadPhoto_NoFile(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	require.Equal(t, http.StatusSeeOther, postForm(router, "/register", registerForm()).Code)

	w := postForm(router, "/upload/1", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_FILE", errorPart(t, decodeBody(t, w))["code"])
}

func TestUpdate(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	require.Equal(t, http.StatusSeeOther, postForm(router, "/register", registerForm()).Code)

	form := registerForm()
	form.Set("address", "99 Oak Avenue")
	w := postForm(router, "/update/1", form)

	assert.Equal(t, http.StatusOK, w.Code)

	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "99 Oak Avenue", data["address"])
}

func TestDelete_FailureShowsWarningWithListing(t *testing.T) {
	repo := newFakeRepo()
	router := setupRouter(t, repo, &fakeStorage{})

	require.Equal(t, http.StatusSeeOther, postForm(router, "/register", registerForm()).Code)

	// Unknown id: the delete fails but the listing still renders.
	req := httptest.NewRequest(http.MethodGet, "/delete/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, deleteWarning, data["warning"])
	assert.Len(t, data["members"], 1)
}

func TestDelete_Success(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	require.Equal(t, http.StatusSeeOther, postForm(router, "/register", registerForm()).Code)

	req := httptest.NewRequest(http.MethodGet, "/delete/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, data, "warning")
	assert.Len(t, data["members"], 0)
}

func TestList(t *testing.T) {
	router := setupRouter(t, newFakeRepo(), &fakeStorage{})

	require.Equal(t, http.StatusSeeOther, postForm(router, "/register", registerForm()).Code)

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok)

	members, ok := data["members"].([]interface{})
	require.True(t, ok)
	require.Len(t, members, 1)

	first, ok := members[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "john.doe@example.com", first["email"])
}
