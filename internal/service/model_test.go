package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/talentflow/talentflow/internal/api/dto"
	"github.com/talentflow/talentflow/internal/domain/datablock"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/model"
	"github.com/talentflow/talentflow/internal/domain/shift"
	"github.com/talentflow/talentflow/internal/domain/status"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/testutil"
	"github.com/talentflow/talentflow/internal/types"
)

type ModelServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     ModelService
	slotService SlotService
	testData    struct {
		model *dto.ModelResponse
	}
}

func TestModelService(t *testing.T) {
	suite.Run(t, new(ModelServiceSuite))
}

func (s *ModelServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewModelService(params)
	s.slotService = NewSlotService(params)
	s.setupTestData()
}

func (s *ModelServiceSuite) setupTestData() {
	resp, err := s.service.CreateModel(s.GetContext(), dto.CreateModelRequest{
		Name: "Erin",
		Contacts: &dto.ContactsRequest{
			Telegram: lo.ToPtr("@erin"),
		},
	})
	s.NoError(err)
	s.testData.model = resp
}

func (s *ModelServiceSuite) getModel(id string) *model.Model {
	m, err := s.GetStores().ModelRepo.Get(s.GetContext(), id)
	s.NoError(err)
	return m
}

func (s *ModelServiceSuite) TestCreateModel() {
	m := s.getModel(s.testData.model.ID)
	s.Equal("Erin", m.Name)
	s.Equal("@erin", m.Contacts.Telegram)
	s.Equal(lifecycle.StageRegistered, m.Stage())
	s.Equal(status.NotConfirmed, m.Status1)
	s.Len(m.History.OfType(history.EntryCreated), 1)
	s.Len(s.GetPublisher().EventsNamed(types.EventModelCreated), 1)
}

func (s *ModelServiceSuite) TestCreateModelExtractsDataBlock() {
	resp, err := s.service.CreateModel(s.GetContext(), dto.CreateModelRequest{
		Name: "Frank",
		DataBlock: &datablock.DataBlock{
			ModelData: []datablock.Field{
				{Field: "fio", Value: "Frank Castle"},
				{Field: "birth_date", Value: "2001-02-03"},
			},
		},
	})
	s.NoError(err)

	m := s.getModel(resp.ID)
	s.Equal("Frank Castle", m.FullName)
	s.Equal("2001-02-03", m.Registration.BirthDate)
}

func (s *ModelServiceSuite) TestCreateModelValidation() {
	_, err := s.service.CreateModel(s.GetContext(), dto.CreateModelRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreateModel(s.GetContext(), dto.CreateModelRequest{Name: "Gus", Stage: lo.ToPtr("retired")})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ModelServiceSuite) TestListModels() {
	ctx := s.GetContext()
	_, err := s.service.CreateModel(ctx, dto.CreateModelRequest{Name: "Hana", Stage: lo.ToPtr(string(lifecycle.StageTraining))})
	s.NoError(err)

	resp, err := s.service.ListModels(ctx, &types.ModelFilter{Stage: string(lifecycle.StageTraining)})
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal("Hana", resp.Items[0].Name)

	resp, err = s.service.ListModels(ctx, nil)
	s.NoError(err)
	s.Equal(2, resp.Pagination.Total)

	_, err = s.service.ListModels(ctx, &types.ModelFilter{Stage: "retired"})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ModelServiceSuite) TestUpdateModel() {
	ctx := s.GetContext()

	_, err := s.service.UpdateModel(ctx, s.testData.model.ID, dto.UpdateModelRequest{
		FullName: lo.ToPtr("Erin Hunter"),
		Contacts: &dto.ContactsRequest{Phone: lo.ToPtr("+15550199")},
		StatusFields: dto.StatusFields{
			Status1: lo.ToPtr(status.Confirmed),
		},
	})
	s.NoError(err)

	m := s.getModel(s.testData.model.ID)
	s.Equal("Erin Hunter", m.FullName)
	s.Equal("+15550199", m.Contacts.Phone)
	s.Equal("@erin", m.Contacts.Telegram)
	s.Equal(status.Confirmed, m.Status1)

	s.Len(m.History.OfType(history.EntryStatusChange), 1)
	updates := m.History.OfType(history.EntryUpdated)
	s.Require().Len(updates, 1)
	s.Contains(updates[0].Diff, "full_name")
	s.Contains(updates[0].Diff, "contacts")
}

func (s *ModelServiceSuite) TestUpdateModelWithoutChanges() {
	_, err := s.service.UpdateModel(s.GetContext(), s.testData.model.ID, dto.UpdateModelRequest{
		Name: lo.ToPtr("Erin"),
	})
	s.NoError(err)

	m := s.getModel(s.testData.model.ID)
	s.Equal(1, m.History.Len())
	s.Empty(s.GetPublisher().EventsNamed(types.EventModelUpdated))
}

func (s *ModelServiceSuite) TestUpdateModelRejectsInvalidStatus() {
	_, err := s.service.UpdateModel(s.GetContext(), s.testData.model.ID, dto.UpdateModelRequest{
		StatusFields: dto.StatusFields{Status1: lo.ToPtr("")},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ModelServiceSuite) TestManualStageOverride() {
	_, err := s.service.UpdateModel(s.GetContext(), s.testData.model.ID, dto.UpdateModelRequest{
		Stage: lo.ToPtr(string(lifecycle.StageClosedToTeam)),
	})
	s.NoError(err)

	m := s.getModel(s.testData.model.ID)
	s.Equal(lifecycle.StageClosedToTeam, m.Stage())
	entries := m.History.OfType(history.EntryLifecycleTransition)
	s.Require().Len(entries, 1)
	s.Equal(true, entries[0].Metadata["manual"])
}

func (s *ModelServiceSuite) TestRenameLinkedModelUpdatesSlot() {
	ctx := s.GetContext()

	sl, err := s.slotService.CreateSlot(ctx, dto.CreateSlotRequest{Date: testDate, Title: "Ivy"})
	s.NoError(err)
	registered, err := s.slotService.RegisterModel(ctx, testDate, sl.ID, dto.RegisterModelRequest{})
	s.NoError(err)

	_, err = s.service.UpdateModel(ctx, registered.Model.ID, dto.UpdateModelRequest{Name: lo.ToPtr("Ivy Rose")})
	s.NoError(err)

	stored, err := s.GetStores().SlotRepo.Get(ctx, testDate, sl.ID)
	s.NoError(err)
	s.Equal("Ivy Rose", stored.Title)
	s.Len(stored.History.OfType(history.EntryTitleSyncFromModel), 1)

	m := s.getModel(registered.Model.ID)
	s.Equal("Ivy Rose", m.Registration.SlotRef.Title)
}

func (s *ModelServiceSuite) TestSyncDataBlockToSlot() {
	ctx := s.GetContext()

	sl, err := s.slotService.CreateSlot(ctx, dto.CreateSlotRequest{Date: testDate, Title: "Jade"})
	s.NoError(err)
	registered, err := s.slotService.RegisterModel(ctx, testDate, sl.ID, dto.RegisterModelRequest{})
	s.NoError(err)

	_, err = s.service.UpdateModel(ctx, registered.Model.ID, dto.UpdateModelRequest{
		DataBlock: &datablock.DataBlock{
			ModelData: []datablock.Field{{Field: "telegram", Value: "@jade"}},
		},
		SyncToSlot: true,
	})
	s.NoError(err)

	m := s.getModel(registered.Model.ID)
	s.Equal("@jade", m.Contacts.Telegram)

	stored, err := s.GetStores().SlotRepo.Get(ctx, testDate, sl.ID)
	s.NoError(err)
	value, ok := stored.DataBlock.Lookup("telegram")
	s.True(ok)
	s.Equal("@jade", value)
	s.Len(stored.History.OfType(history.EntryDataSyncFromModel), 1)
}

func (s *ModelServiceSuite) TestSyncFailureDoesNotFailUpdate() {
	ctx := s.GetContext()

	sl, err := s.slotService.CreateSlot(ctx, dto.CreateSlotRequest{Date: testDate, Title: "Kim"})
	s.NoError(err)
	registered, err := s.slotService.RegisterModel(ctx, testDate, sl.ID, dto.RegisterModelRequest{})
	s.NoError(err)

	s.GetKVStore().FailWrites("slot:")
	_, err = s.service.UpdateModel(ctx, registered.Model.ID, dto.UpdateModelRequest{
		StatusFields: dto.StatusFields{Status2: lo.ToPtr(status.NoShow)},
	})
	s.NoError(err)
	s.GetKVStore().Reset()

	m := s.getModel(registered.Model.ID)
	s.Equal(status.NoShow, m.Status2)

	stored, err := s.GetStores().SlotRepo.Get(ctx, testDate, sl.ID)
	s.NoError(err)
	s.Empty(stored.Status2)
	s.Len(s.GetPublisher().EventsNamed(types.EventSyncFailed), 1)
}

func (s *ModelServiceSuite) TestDeleteModel() {
	ctx := s.GetContext()

	sl, err := s.slotService.CreateSlot(ctx, dto.CreateSlotRequest{Date: testDate, Title: "Lee"})
	s.NoError(err)
	registered, err := s.slotService.RegisterModel(ctx, testDate, sl.ID, dto.RegisterModelRequest{})
	s.NoError(err)

	sh := shift.New(ctx, registered.Model.ID, shift.TypeTraining)
	sh.Date = testDate
	s.NoError(s.GetStores().ShiftRepo.Create(ctx, sh))

	s.NoError(s.service.DeleteModel(ctx, registered.Model.ID))

	_, err = s.GetStores().ModelRepo.Get(ctx, registered.Model.ID)
	s.True(ierr.IsNotFound(err))

	shifts, err := s.GetStores().ShiftRepo.List(ctx, registered.Model.ID, nil)
	s.NoError(err)
	s.Empty(shifts)

	stored, err := s.GetStores().SlotRepo.Get(ctx, testDate, sl.ID)
	s.NoError(err)
	s.False(stored.IsLinked())
}

func (s *ModelServiceSuite) TestAddCommentAndHistory() {
	ctx := s.GetContext()

	resp, err := s.service.AddComment(ctx, s.testData.model.ID, dto.AddCommentRequest{Text: "Great first call"})
	s.NoError(err)
	s.Require().Len(resp.Comments, 1)
	s.Equal("Great first call", resp.Comments[0].Text)
	s.Equal(types.GetUserID(ctx), resp.Comments[0].AuthorID)

	_, err = s.service.AddComment(ctx, s.testData.model.ID, dto.AddCommentRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	hist, err := s.service.GetHistory(ctx, s.testData.model.ID)
	s.NoError(err)
	s.Equal(2, hist.Total)
	s.Equal(history.EntryCreated, hist.Items[0].Type)
	s.Equal(history.EntryCommentAdded, hist.Items[1].Type)
}
