package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/config"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, apt *types.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListAvailable(ctx context.Context, doctorID, fromDate string) ([]*types.Appointment, error) {
	args := m.Called(ctx, doctorID, fromDate)
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindOverlapping(ctx context.Context, doctorID, date, startTime, endTime string) ([]*types.Appointment, error) {
	args := m.Called(ctx, doctorID, date, startTime, endTime)
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ClaimParticipation(ctx context.Context, appointmentID, patientID string) (bool, error) {
	args := m.Called(ctx, appointmentID, patientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateResolution(ctx context.Context, appointmentID string, status types.RequestStatus, clearPatient bool) error {
	args := m.Called(ctx, appointmentID, status, clearPatient)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) CountByMonth(ctx context.Context, doctorID string) ([]*types.MonthlyAppointmentStat, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]*types.MonthlyAppointmentStat), args.Error(1)
}

// MockUserDirectory is a mock implementation of UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetByID(ctx context.Context, userID string) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserDirectory) GetByRole(ctx context.Context, role types.Role) ([]*types.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]*types.User), args.Error(1)
}

// MockMedicalRecordRepository is a mock implementation of MedicalRecordRepository
type MockMedicalRecordRepository struct {
	mock.Mock
}

func (m *MockMedicalRecordRepository) GetByID(ctx context.Context, recordID string) (*types.MedicalRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) GetPatientsByDoctor(ctx context.Context, doctorID string) ([]*types.MedicalRecord, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]*types.MedicalRecord), args.Error(1)
}

// MockNotificationEngine is a mock implementation of NotificationEngine
type MockNotificationEngine struct {
	mock.Mock
}

func (m *MockNotificationEngine) Create(ctx context.Context, n *types.Notification) (*types.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Notification), args.Error(1)
}

func (m *MockNotificationEngine) ListByUser(ctx context.Context, userID string, filters *types.NotificationFilters) ([]*types.Notification, error) {
	args := m.Called(ctx, userID, filters)
	return args.Get(0).([]*types.Notification), args.Error(1)
}

func (m *MockNotificationEngine) ListUnread(ctx context.Context, userID string) ([]*types.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*types.Notification), args.Error(1)
}

func (m *MockNotificationEngine) MarkRead(ctx context.Context, notificationID, userID string) (*types.Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Notification), args.Error(1)
}

func (m *MockNotificationEngine) MarkAllRead(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationEngine) Delete(ctx context.Context, notificationID, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationEngine) GroupByTypeAndDay(ctx context.Context, userID string) ([]*types.NotificationGroup, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*types.NotificationGroup), args.Error(1)
}

func (m *MockNotificationEngine) MarkGroupRead(ctx context.Context, groupID, userID string) (int, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationEngine) Metrics(ctx context.Context, userID string) (*types.NotificationMetrics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.NotificationMetrics), args.Error(1)
}

func (m *MockNotificationEngine) RunReminderSweep(ctx context.Context) (*interfaces.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SweepResult), args.Error(1)
}

func (m *MockNotificationEngine) RunGroupingSweep(ctx context.Context, groupType types.GroupType) (*interfaces.SweepResult, error) {
	args := m.Called(ctx, groupType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SweepResult), args.Error(1)
}

type testEnv struct {
	service *Service
	repo    *MockAppointmentRepository
	users   *MockUserDirectory
	records *MockMedicalRecordRepository
	engine  *MockNotificationEngine
}

// Fixed clock: 2026-03-10 09:00 UTC
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func setupTestService(t *testing.T) *testEnv {
	t.Helper()

	repo := &MockAppointmentRepository{}
	users := &MockUserDirectory{}
	records := &MockMedicalRecordRepository{}
	engine := &MockNotificationEngine{}
	log := logger.New("debug")

	notifier := NewNotifier(engine, records, users, log)
	service := New(&config.Config{}, log, repo, users, notifier)
	service.now = func() time.Time { return testNow }

	return &testEnv{service: service, repo: repo, users: users, records: records, engine: engine}
}

func doctorCaller(id string) types.Identity {
	return types.Identity{UserID: id, Role: types.RoleMedecin}
}

func patientCaller(id string) types.Identity {
	return types.Identity{UserID: id, Role: types.RolePatient}
}

func openSlot() *types.Appointment {
	return &types.Appointment{
		Date:      "2026-03-15",
		StartTime: "10:00",
		EndTime:   "11:00",
		Specialty: types.SpecialtyCardiologist,
	}
}

func TestCreate_Success(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()

	env.repo.On("FindOverlapping", mock.Anything, "doc-1", "2026-03-15", "10:00", "11:00").Return([]*types.Appointment{}, nil)
	env.repo.On("Create", mock.Anything, mock.AnythingOfType("*types.Appointment")).Return(nil)
	env.records.On("GetPatientsByDoctor", mock.Anything, "doc-1").Return([]*types.MedicalRecord{}, nil)
	env.users.On("GetByRole", mock.Anything, types.RoleSuperAdmin).Return([]*types.User{}, nil)

	created, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "doc-1", created.DoctorID)
	assert.Nil(t, created.PatientID)
	assert.False(t, created.ParticipationRequested)
	assert.Equal(t, types.RequestStatusPending, created.RequestStatus)
	env.repo.AssertExpectations(t)
}

func TestCreate_NotifiesPatientsAndAdmins(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()

	env.repo.On("FindOverlapping", mock.Anything, "doc-1", "2026-03-15", "10:00", "11:00").Return([]*types.Appointment{}, nil)
	env.repo.On("Create", mock.Anything, mock.AnythingOfType("*types.Appointment")).Return(nil)
	env.records.On("GetPatientsByDoctor", mock.Anything, "doc-1").Return([]*types.MedicalRecord{
		{ID: "rec-1", PatientID: "pat-1", DoctorID: "doc-1"},
		{ID: "rec-2", PatientID: "pat-2", DoctorID: "doc-1"},
	}, nil)
	env.users.On("GetByRole", mock.Anything, types.RoleSuperAdmin).Return([]*types.User{
		{ID: "admin-1", Role: types.RoleSuperAdmin},
	}, nil)
	env.engine.On("Create", mock.Anything, mock.AnythingOfType("*types.Notification")).Return(&types.Notification{}, nil)

	_, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.NoError(t, err)
	env.engine.AssertNumberOfCalls(t, "Create", 3)
}

func TestCreate_NotificationFailureDoesNotAbort(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()

	env.repo.On("FindOverlapping", mock.Anything, "doc-1", "2026-03-15", "10:00", "11:00").Return([]*types.Appointment{}, nil)
	env.repo.On("Create", mock.Anything, mock.AnythingOfType("*types.Appointment")).Return(nil)
	env.records.On("GetPatientsByDoctor", mock.Anything, "doc-1").Return([]*types.MedicalRecord{
		{ID: "rec-1", PatientID: "pat-1", DoctorID: "doc-1"},
	}, nil)
	env.users.On("GetByRole", mock.Anything, types.RoleSuperAdmin).Return([]*types.User{}, nil)
	env.engine.On("Create", mock.Anything, mock.AnythingOfType("*types.Notification")).
		Return(nil, types.NewRateLimitError("too many notifications", nil))

	created, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestCreate_RejectsNonDoctor(t *testing.T) {
	env := setupTestService(t)

	_, err := env.service.Create(context.Background(), openSlot(), patientCaller("pat-1"))

	assert.True(t, types.IsForbidden(err))
}

func TestCreate_RejectsPastDate(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()
	apt.Date = "2026-03-09"

	_, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.True(t, types.IsType(err, types.ErrorTypePastDate))
}

func TestCreate_RejectsSameDayPastStart(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()
	apt.Date = "2026-03-10" // today under the fixed clock
	apt.StartTime = "08:30"
	apt.EndTime = "09:30"

	_, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.True(t, types.IsType(err, types.ErrorTypePastDate))
}

func TestCreate_AllowsSameDayFutureStart(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()
	apt.Date = "2026-03-10"
	apt.StartTime = "09:30"
	apt.EndTime = "10:30"

	env.repo.On("FindOverlapping", mock.Anything, "doc-1", "2026-03-10", "09:30", "10:30").Return([]*types.Appointment{}, nil)
	env.repo.On("Create", mock.Anything, mock.AnythingOfType("*types.Appointment")).Return(nil)
	env.records.On("GetPatientsByDoctor", mock.Anything, "doc-1").Return([]*types.MedicalRecord{}, nil)
	env.users.On("GetByRole", mock.Anything, types.RoleSuperAdmin).Return([]*types.User{}, nil)

	_, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.NoError(t, err)
}

func TestCreate_RejectsEndBeforeStart(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()
	apt.StartTime = "11:00"
	apt.EndTime = "10:00"

	_, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.True(t, types.IsValidation(err))
}

func TestCreate_RejectsInvalidSpecialty(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()
	apt.Specialty = "Dentist"

	_, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.True(t, types.IsValidation(err))
}

func TestCreate_RejectsOverlap(t *testing.T) {
	env := setupTestService(t)
	apt := openSlot()

	env.repo.On("FindOverlapping", mock.Anything, "doc-1", "2026-03-15", "10:00", "11:00").Return([]*types.Appointment{
		{ID: "existing-1", DoctorID: "doc-1", Date: "2026-03-15", StartTime: "09:00", EndTime: "10:00"},
	}, nil)

	_, err := env.service.Create(context.Background(), apt, doctorCaller("doc-1"))

	assert.True(t, types.IsConflict(err))
	assert.True(t, types.HasCode(err, types.ErrCodeOverlap))
}

func TestRequestParticipation_Success(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(&types.Appointment{
		ID: "apt-1", DoctorID: "doc-1", Date: "2026-03-15", StartTime: "10:00", EndTime: "11:00",
		Specialty: types.SpecialtyCardiologist, RequestStatus: types.RequestStatusPending,
	}, nil)
	env.repo.On("ClaimParticipation", mock.Anything, "apt-1", "pat-1").Return(true, nil)
	env.engine.On("Create", mock.Anything, mock.AnythingOfType("*types.Notification")).Return(&types.Notification{}, nil)

	apt, err := env.service.RequestParticipation(context.Background(), "apt-1", patientCaller("pat-1"))

	assert.NoError(t, err)
	assert.NotNil(t, apt.PatientID)
	assert.Equal(t, "pat-1", *apt.PatientID)
	assert.True(t, apt.ParticipationRequested)
	assert.Equal(t, types.RequestStatusPending, apt.RequestStatus)

	// The doctor is the one notified
	notified := env.engine.Calls[0].Arguments.Get(1).(*types.Notification)
	assert.Equal(t, "doc-1", notified.UserID)
}

func TestRequestParticipation_AlreadyClaimed(t *testing.T) {
	env := setupTestService(t)
	otherPatient := "pat-2"

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(&types.Appointment{
		ID: "apt-1", DoctorID: "doc-1", PatientID: &otherPatient, ParticipationRequested: true,
		RequestStatus: types.RequestStatusPending,
	}, nil)
	env.repo.On("ClaimParticipation", mock.Anything, "apt-1", "pat-1").Return(false, nil)

	_, err := env.service.RequestParticipation(context.Background(), "apt-1", patientCaller("pat-1"))

	assert.True(t, types.HasCode(err, types.ErrCodeAlreadyClaimed))
}

func TestRequestParticipation_AlreadyRequested(t *testing.T) {
	env := setupTestService(t)
	samePatient := "pat-1"

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(&types.Appointment{
		ID: "apt-1", DoctorID: "doc-1", PatientID: &samePatient, ParticipationRequested: true,
		RequestStatus: types.RequestStatusPending,
	}, nil)
	env.repo.On("ClaimParticipation", mock.Anything, "apt-1", "pat-1").Return(false, nil)

	_, err := env.service.RequestParticipation(context.Background(), "apt-1", patientCaller("pat-1"))

	assert.True(t, types.HasCode(err, types.ErrCodeAlreadyRequested))
}

func TestRequestParticipation_NotFound(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "missing").Return(nil, types.NewNotFoundError(types.ErrCodeNotFound, "appointment not found: missing"))

	_, err := env.service.RequestParticipation(context.Background(), "missing", patientCaller("pat-1"))

	assert.True(t, types.IsNotFound(err))
}

func TestRequestParticipation_RejectsNonPatient(t *testing.T) {
	env := setupTestService(t)

	_, err := env.service.RequestParticipation(context.Background(), "apt-1", doctorCaller("doc-1"))

	assert.True(t, types.IsForbidden(err))
}

func requestedAppointment(patientID string) *types.Appointment {
	return &types.Appointment{
		ID: "apt-1", DoctorID: "doc-1", Date: "2026-03-15", StartTime: "10:00", EndTime: "11:00",
		Specialty: types.SpecialtyCardiologist, PatientID: &patientID,
		ParticipationRequested: true, RequestStatus: types.RequestStatusPending,
	}
}

func TestResolveRequest_Accept(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(requestedAppointment("pat-1"), nil)
	env.users.On("GetByID", mock.Anything, "pat-1").Return(&types.User{ID: "pat-1", Role: types.RolePatient}, nil)
	env.repo.On("UpdateResolution", mock.Anything, "apt-1", types.RequestStatusAccepted, false).Return(nil)
	env.engine.On("Create", mock.Anything, mock.AnythingOfType("*types.Notification")).Return(&types.Notification{}, nil)

	apt, err := env.service.ResolveRequest(context.Background(), "apt-1", types.DecisionAccepted, "pat-1", doctorCaller("doc-1"))

	assert.NoError(t, err)
	assert.Equal(t, types.RequestStatusAccepted, apt.RequestStatus)
	assert.NotNil(t, apt.PatientID)

	notified := env.engine.Calls[0].Arguments.Get(1).(*types.Notification)
	assert.Equal(t, "pat-1", notified.UserID)
}

func TestResolveRequest_RejectReopensSlot(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(requestedAppointment("pat-1"), nil)
	env.users.On("GetByID", mock.Anything, "pat-1").Return(&types.User{ID: "pat-1", Role: types.RolePatient}, nil)
	env.repo.On("UpdateResolution", mock.Anything, "apt-1", types.RequestStatusRejected, true).Return(nil)
	env.engine.On("Create", mock.Anything, mock.AnythingOfType("*types.Notification")).Return(&types.Notification{}, nil)

	apt, err := env.service.ResolveRequest(context.Background(), "apt-1", types.DecisionRejected, "pat-1", doctorCaller("doc-1"))

	assert.NoError(t, err)
	assert.Equal(t, types.RequestStatusRejected, apt.RequestStatus)
	assert.Nil(t, apt.PatientID)
	assert.False(t, apt.ParticipationRequested)
	env.repo.AssertExpectations(t)
}

func TestResolveRequest_ForbiddenForOtherDoctor(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(requestedAppointment("pat-1"), nil)

	_, err := env.service.ResolveRequest(context.Background(), "apt-1", types.DecisionAccepted, "pat-1", doctorCaller("doc-2"))

	assert.True(t, types.IsForbidden(err))
}

func TestResolveRequest_InvalidStateWithoutRequest(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(&types.Appointment{
		ID: "apt-1", DoctorID: "doc-1", RequestStatus: types.RequestStatusPending,
	}, nil)
	env.users.On("GetByID", mock.Anything, "pat-1").Return(&types.User{ID: "pat-1", Role: types.RolePatient}, nil)

	_, err := env.service.ResolveRequest(context.Background(), "apt-1", types.DecisionAccepted, "pat-1", doctorCaller("doc-1"))

	assert.True(t, types.HasCode(err, types.ErrCodeInvalidState))
}

func TestResolveRequest_PatientMismatch(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(requestedAppointment("pat-2"), nil)
	env.users.On("GetByID", mock.Anything, "pat-1").Return(&types.User{ID: "pat-1", Role: types.RolePatient}, nil)

	_, err := env.service.ResolveRequest(context.Background(), "apt-1", types.DecisionAccepted, "pat-1", doctorCaller("doc-1"))

	assert.True(t, types.HasCode(err, types.ErrCodeConflict))
}

func TestResolveRequest_ReferencedUserNotPatient(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(requestedAppointment("doc-2"), nil)
	env.users.On("GetByID", mock.Anything, "doc-2").Return(&types.User{ID: "doc-2", Role: types.RoleMedecin}, nil)

	_, err := env.service.ResolveRequest(context.Background(), "apt-1", types.DecisionAccepted, "doc-2", doctorCaller("doc-1"))

	assert.True(t, types.IsNotFound(err))
}

func TestResolveRequest_InvalidDecision(t *testing.T) {
	env := setupTestService(t)

	_, err := env.service.ResolveRequest(context.Background(), "apt-1", "maybe", "pat-1", doctorCaller("doc-1"))

	assert.True(t, types.IsValidation(err))
}

func TestDelete_OwningDoctor(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(&types.Appointment{ID: "apt-1", DoctorID: "doc-1"}, nil)
	env.repo.On("Delete", mock.Anything, "apt-1").Return(nil)

	err := env.service.Delete(context.Background(), "apt-1", doctorCaller("doc-1"))

	assert.NoError(t, err)
}

func TestDelete_ForbiddenForOtherDoctor(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("GetByID", mock.Anything, "apt-1").Return(&types.Appointment{ID: "apt-1", DoctorID: "doc-1"}, nil)

	err := env.service.Delete(context.Background(), "apt-1", doctorCaller("doc-2"))

	assert.True(t, types.IsForbidden(err))
}

func TestListAvailable_ProjectsOpenSlots(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("ListAvailable", mock.Anything, "doc-1", "2026-03-10").Return([]*types.Appointment{
		{ID: "apt-1", Date: "2026-03-15", StartTime: "10:00", EndTime: "11:00",
			Specialty: types.SpecialtyCardiologist, DoctorID: "doc-1"},
	}, nil)

	available, err := env.service.ListAvailable(context.Background(), "doc-1")

	assert.NoError(t, err)
	assert.Len(t, available, 1)
	assert.Equal(t, "apt-1", available[0].ID)
	assert.Equal(t, types.SpecialtyCardiologist, available[0].Specialty)
}

func TestGetByUser_ScopesDoctorToOwnSlots(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("List", mock.Anything, &types.AppointmentFilters{DoctorID: "doc-1"}).Return([]*types.Appointment{}, nil)

	_, err := env.service.GetByUser(context.Background(), doctorCaller("doc-1"))

	assert.NoError(t, err)
	env.repo.AssertExpectations(t)
}

func TestGetByUser_ScopesPatientToClaimedSlots(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("List", mock.Anything, &types.AppointmentFilters{PatientID: "pat-1"}).Return([]*types.Appointment{}, nil)

	_, err := env.service.GetByUser(context.Background(), patientCaller("pat-1"))

	assert.NoError(t, err)
	env.repo.AssertExpectations(t)
}

func TestGetPending_ExcludesUnrequestedOpenSlots(t *testing.T) {
	env := setupTestService(t)
	patientID := "pat-1"

	env.repo.On("List", mock.Anything, mock.AnythingOfType("*types.AppointmentFilters")).Return([]*types.Appointment{
		{ID: "open-slot", DoctorID: "doc-1", RequestStatus: types.RequestStatusPending},
		{ID: "requested", DoctorID: "doc-1", PatientID: &patientID,
			ParticipationRequested: true, RequestStatus: types.RequestStatusPending},
	}, nil)

	pending, err := env.service.GetPending(context.Background(), doctorCaller("doc-1"))

	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, "requested", pending[0].ID)
}

func TestGetStatsByMonth(t *testing.T) {
	env := setupTestService(t)

	env.repo.On("CountByMonth", mock.Anything, "doc-1").Return([]*types.MonthlyAppointmentStat{
		{Year: 2026, Month: 2, Count: 4},
		{Year: 2026, Month: 3, Count: 7},
	}, nil)

	stats, err := env.service.GetStatsByMonth(context.Background(), "doc-1")

	assert.NoError(t, err)
	assert.Len(t, stats, 2)
	assert.Equal(t, 7, stats[1].Count)
}
