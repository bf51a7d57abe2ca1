package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/talentflow/talentflow/internal/api/dto"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/shift"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/testutil"
	"github.com/talentflow/talentflow/internal/types"
)

type ShiftServiceSuite struct {
	testutil.BaseServiceTestSuite
	service      ShiftService
	modelService ModelService
	testData     struct {
		modelID string
	}
}

func TestShiftService(t *testing.T) {
	suite.Run(t, new(ShiftServiceSuite))
}

func (s *ShiftServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.setupTestData()
}

func (s *ShiftServiceSuite) setupService(params ServiceParams) {
	s.service = NewShiftService(params)
	s.modelService = NewModelService(params)
}

func (s *ShiftServiceSuite) setupTestData() {
	resp, err := s.modelService.CreateModel(s.GetContext(), dto.CreateModelRequest{Name: "Mia"})
	s.NoError(err)
	s.testData.modelID = resp.ID
}

func (s *ShiftServiceSuite) createShift(shiftType shift.Type) *dto.ShiftResponse {
	resp, err := s.service.CreateShift(s.GetContext(), s.testData.modelID, dto.CreateShiftRequest{
		Date:  testDate,
		Start: "10:00",
		End:   "14:00",
		Type:  string(shiftType),
	})
	s.Require().NoError(err)
	return resp
}

func (s *ShiftServiceSuite) complete(id string) *dto.UpdateShiftResponse {
	resp, err := s.service.UpdateShift(s.GetContext(), s.testData.modelID, id, dto.UpdateShiftRequest{
		Status: lo.ToPtr(string(shift.StatusCompleted)),
	})
	s.Require().NoError(err)
	return resp
}

func (s *ShiftServiceSuite) stage() lifecycle.Stage {
	m, err := s.GetStores().ModelRepo.Get(s.GetContext(), s.testData.modelID)
	s.Require().NoError(err)
	return m.Stage()
}

func (s *ShiftServiceSuite) transitions() []history.Entry {
	m, err := s.GetStores().ModelRepo.Get(s.GetContext(), s.testData.modelID)
	s.Require().NoError(err)
	return m.History.OfType(history.EntryLifecycleTransition)
}

func (s *ShiftServiceSuite) TestCreateShift() {
	resp := s.createShift(shift.TypeTraining)
	s.Equal(shift.StatusScheduled, resp.Status)
	s.Equal(s.testData.modelID, resp.ModelID)
	s.Len(s.GetPublisher().EventsNamed(types.EventShiftCreated), 1)

	_, err := s.service.CreateShift(s.GetContext(), "model_missing", dto.CreateShiftRequest{
		Date: testDate,
		Type: string(shift.TypeTraining),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ShiftServiceSuite) TestCreateShiftGuard() {
	_, err := s.service.CreateShift(s.GetContext(), s.testData.modelID, dto.CreateShiftRequest{
		Date: testDate,
		Type: string(shift.TypeRegular),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	eligibility, err := s.service.CheckEligibility(s.GetContext(), s.testData.modelID, string(shift.TypeRegular))
	s.NoError(err)
	s.False(eligibility.Allowed)
	s.NotEmpty(eligibility.Reason)
	s.Equal(lifecycle.StageRegistered, eligibility.Stage)

	eligibility, err = s.service.CheckEligibility(s.GetContext(), s.testData.modelID, string(shift.TypeTraining))
	s.NoError(err)
	s.True(eligibility.Allowed)

	_, err = s.service.CheckEligibility(s.GetContext(), s.testData.modelID, "night")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ShiftServiceSuite) TestTrainingShiftsAdvanceStage() {
	first := s.createShift(shift.TypeTraining)
	second := s.createShift(shift.TypeTraining)

	resp := s.complete(first.ID)
	s.NotNil(resp.CompletedAt)
	s.Require().NotNil(resp.StageChange)
	s.Equal(lifecycle.StageRegistered, resp.StageChange.From)
	s.Equal(lifecycle.StageTraining, resp.StageChange.To)
	s.Equal(lifecycle.StageTraining, s.stage())

	// completing the same shift again does not count twice
	resp = s.complete(first.ID)
	s.Nil(resp.StageChange)
	s.Equal(lifecycle.StageTraining, s.stage())
	s.Len(s.transitions(), 1)

	resp = s.complete(second.ID)
	s.Require().NotNil(resp.StageChange)
	s.Equal(lifecycle.StageReadyToWork, resp.StageChange.To)
	s.Equal(lifecycle.StageReadyToWork, s.stage())

	transitions := s.transitions()
	s.Require().Len(transitions, 2)
	s.Equal(history.Change{From: string(lifecycle.StageRegistered), To: string(lifecycle.StageTraining)},
		transitions[0].Diff["status"])
	s.Equal(history.Change{From: string(lifecycle.StageTraining), To: string(lifecycle.StageReadyToWork)},
		transitions[1].Diff["status"])
	s.Equal(second.ID, transitions[1].Metadata["shift_id"])

	s.Len(s.GetPublisher().EventsNamed(types.EventModelStageAdvanced), 2)
	s.Len(s.GetPublisher().EventsNamed(types.EventShiftCompleted), 3)
}

func (s *ShiftServiceSuite) TestRegularShiftsReachModel() {
	_, err := s.modelService.UpdateModel(s.GetContext(), s.testData.modelID, dto.UpdateModelRequest{
		Stage: lo.ToPtr(string(lifecycle.StageReadyToWork)),
	})
	s.NoError(err)

	first := s.createShift(shift.TypeRegular)
	second := s.createShift(shift.TypeRegular)

	s.Nil(s.complete(first.ID).StageChange)
	s.Equal(lifecycle.StageReadyToWork, s.stage())

	resp := s.complete(second.ID)
	s.Require().NotNil(resp.StageChange)
	s.Equal(lifecycle.StageModel, resp.StageChange.To)
}

func (s *ShiftServiceSuite) TestClosedToTeamExit() {
	cfg := *s.GetConfig()
	cfg.Lifecycle.TrainingExitStage = string(lifecycle.StageClosedToTeam)
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	params.Config = &cfg
	params.StatusManager = NewStatusManager(&cfg)
	s.setupService(params)

	s.complete(s.createShift(shift.TypeTraining).ID)
	s.complete(s.createShift(shift.TypeTraining).ID)
	s.Equal(lifecycle.StageClosedToTeam, s.stage())

	resp := s.complete(s.createShift(shift.TypeRegular).ID)
	s.Require().NotNil(resp.StageChange)
	s.Equal(lifecycle.StageReadyToWork, resp.StageChange.To)
}

func (s *ShiftServiceSuite) TestCancelledShiftDoesNotCount() {
	sh := s.createShift(shift.TypeTraining)
	s.complete(sh.ID)

	resp, err := s.service.UpdateShift(s.GetContext(), s.testData.modelID, sh.ID, dto.UpdateShiftRequest{
		Status: lo.ToPtr(string(shift.StatusCancelled)),
	})
	s.NoError(err)
	s.Nil(resp.CompletedAt)
	s.Nil(resp.StageChange)
	s.Len(s.GetPublisher().EventsNamed(types.EventShiftUpdated), 1)
}

func (s *ShiftServiceSuite) TestUpdateShiftValidation() {
	sh := s.createShift(shift.TypeTraining)

	_, err := s.service.UpdateShift(s.GetContext(), s.testData.modelID, sh.ID, dto.UpdateShiftRequest{
		Status: lo.ToPtr("paused"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.UpdateShift(s.GetContext(), s.testData.modelID, sh.ID, dto.UpdateShiftRequest{
		End: lo.ToPtr("09:00"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ShiftServiceSuite) TestListShifts() {
	first := s.createShift(shift.TypeTraining)
	s.createShift(shift.TypeTraining)
	s.createShift(shift.TypeTraining)
	s.complete(first.ID)

	resp, err := s.service.ListShifts(s.GetContext(), s.testData.modelID, &types.ShiftFilter{
		QueryFilter: &types.QueryFilter{Limit: lo.ToPtr(2), Offset: lo.ToPtr(0)},
	})
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(3, resp.Pagination.Total)

	resp, err = s.service.ListShifts(s.GetContext(), s.testData.modelID, &types.ShiftFilter{
		Status: string(shift.StatusCompleted),
	})
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(first.ID, resp.Items[0].ID)

	_, err = s.service.ListShifts(s.GetContext(), s.testData.modelID, &types.ShiftFilter{Type: "night"})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ShiftServiceSuite) TestDeleteShift() {
	sh := s.createShift(shift.TypeTraining)

	s.NoError(s.service.DeleteShift(s.GetContext(), s.testData.modelID, sh.ID))

	_, err := s.service.GetShift(s.GetContext(), s.testData.modelID, sh.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
