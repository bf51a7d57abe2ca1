package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/suite"
	v1 "github.com/talentflow/talentflow/internal/api/v1"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/kv/memory"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/publisher"
	"github.com/talentflow/talentflow/internal/repository"
	"github.com/talentflow/talentflow/internal/sentry"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/types"
	"github.com/talentflow/talentflow/internal/validator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type RouterSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validator.NewValidator()
}

func (s *RouterSuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	log := logger.NewNopLogger()
	store := memory.NewStore()

	params := service.NewServiceParams(
		log,
		cfg,
		sentry.NewSentryService(cfg, log),
		repository.NewSlotRepository(store, log),
		repository.NewModelRepository(store, log),
		repository.NewShiftRepository(store, log),
		service.NewStatusManager(cfg),
		publisher.NewNopPublisher(),
	)

	s.router = NewRouter(Handlers{
		Health:    v1.NewHealthHandler(store, cfg, log),
		Slot:      v1.NewSlotHandler(service.NewSlotService(params), log),
		Model:     v1.NewModelHandler(service.NewModelService(params), log),
		Shift:     v1.NewShiftHandler(service.NewShiftService(params), log),
		Lifecycle: v1.NewLifecycleHandler(params.StatusManager),
	}, cfg, log)
}

func (s *RouterSuite) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get(types.HeaderRequestID))

	body := s.decode(w)
	s.Equal("ok", body["status"])
	s.Equal(string(types.StoreBackendMemory), body["store"])
}

func (s *RouterSuite) TestRequestIDIsEchoed() {
	w := s.do(http.MethodGet, "/health", nil, types.HeaderRequestID, "req-123")
	s.Equal("req-123", w.Header().Get(types.HeaderRequestID))
}

func (s *RouterSuite) TestRegisterAndSyncStatuses() {
	w := s.do(http.MethodPost, "/v1/slots", map[string]any{
		"date":  "2026-03-14",
		"start": "10:00",
		"end":   "11:00",
		"title": "Nora",
	}, types.HeaderUserID, "recruiter_1")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	slotID := s.decode(w)["id"].(string)

	w = s.do(http.MethodPost, "/v1/slots/2026-03-14/"+slotID+"/register", nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	registered := s.decode(w)
	model := registered["model"].(map[string]any)
	modelID := model["id"].(string)
	s.Equal("Nora", model["name"])
	s.Equal("registration", model["status4"])

	w = s.do(http.MethodPut, "/v1/models/"+modelID, map[string]any{"status1": "confirmed"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/v1/slots/2026-03-14/"+slotID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	sl := s.decode(w)
	s.Equal("confirmed", sl["status1"])
	s.Equal(modelID, sl["model_id"])

	w = s.do(http.MethodGet, "/v1/models/"+modelID+"/history", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(2, s.decode(w)["total"])
}

func (s *RouterSuite) TestListSlotsRequiresDate() {
	w := s.do(http.MethodGet, "/v1/slots", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	body := s.decode(w)
	s.Equal(false, body["success"])
	errBody := body["error"].(map[string]any)
	s.NotEmpty(errBody["message"])
	s.Equal("validation_error", errBody["code"])
}

func (s *RouterSuite) TestInvalidStatusRejected() {
	w := s.do(http.MethodPost, "/v1/slots", map[string]any{
		"date":    "2026-03-14",
		"status1": "maybe",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestShiftGuard() {
	w := s.do(http.MethodPost, "/v1/models", map[string]any{"name": "Olga"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	modelID := s.decode(w)["id"].(string)

	w = s.do(http.MethodPost, "/v1/models/"+modelID+"/shifts", map[string]any{
		"date": "2026-03-20",
		"type": "regular",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/v1/models/"+modelID+"/shift-eligibility?type=training", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["allowed"])
}

func (s *RouterSuite) TestMissingModel() {
	w := s.do(http.MethodGet, "/v1/models/model_missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestLifecycleNext() {
	w := s.do(http.MethodGet, "/v1/lifecycle/next?status=training", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal("ready_to_work", body["next"])
	s.Equal(false, body["final"])

	w = s.do(http.MethodGet, "/v1/lifecycle/next?status=model", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["final"])

	w = s.do(http.MethodGet, "/v1/lifecycle/next?status=retired", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestStatuses() {
	w := s.do(http.MethodGet, "/v1/statuses", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	axes := body["axes"].(map[string]any)
	s.Len(axes, 4)
	s.ElementsMatch([]any{"confirmed", "not_confirmed", "fail"}, axes["status1"])
}
