package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkRegister(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.enroll(t, "S001", 1, encAt(0))
	e.enroll(t, "S002", 2, encAt(5))
	e.enroll(t, "S003", 3, encAt(10))

	class := testImage(t, 50)
	e.detector.add(class, encAt(0.2), encAt(5.1), encAt(40))

	session, err := e.attendance.MarkRegister(ctx, e.lecturer.ID, e.qualification.ID, e.module.ID, class,
		map[string]int{"S001": 7, "S003": 9})
	require.NoError(t, err)

	assert.Equal(t, []string{"S001", "S002"}, session.StudentIDs())
	assert.Equal(t, 2, session.PresentCount)
	assert.Equal(t, 1, session.AbsentCount)
	assert.Equal(t, 3, session.FacesDetected)
	assert.Equal(t, "Dr Banda", session.LecturerName)
	assert.Equal(t, session.RecordedAt.Format(model.AttendanceTimeLayout), session.AttendanceTime)

	records, _, err := e.attendance.Records(ctx, model.AttendanceFilter{}, 1, 50)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byNumber := map[string]model.AttendanceRecord{}
	for _, r := range records {
		byNumber[r.StudentNumber] = r
		assert.True(t, r.RecordedAt.Equal(session.RecordedAt), "records share one timestamp")
	}
	assert.Equal(t, model.StatusPresent, byNumber["S001"].Status)
	assert.Equal(t, 7, byNumber["S001"].Marks)
	assert.Equal(t, model.StatusPresent, byNumber["S002"].Status)
	assert.Zero(t, byNumber["S002"].Marks)
	assert.Equal(t, model.StatusAbsent, byNumber["S003"].Status)
	assert.Zero(t, byNumber["S003"].Marks, "marks only count for present students")
}

func TestMarkRegisterDetectionFailureMarksEveryoneAbsent(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.enroll(t, "S001", 1, encAt(0))
	e.detector.err = errors.New("dlib exploded")

	session, err := e.attendance.MarkRegister(ctx, e.lecturer.ID, e.qualification.ID, e.module.ID, testImage(t, 9), nil)
	require.NoError(t, err)
	assert.Zero(t, session.PresentCount)
	assert.Equal(t, 1, session.AbsentCount)
}

func TestMarkRegisterWithoutPhotoMarksEveryoneAbsent(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.enroll(t, "S001", 1, encAt(0))
	e.enroll(t, "S002", 2, encAt(5))
	calls := e.detector.calls

	session, err := e.attendance.MarkRegister(ctx, e.lecturer.ID, e.qualification.ID, e.module.ID, nil,
		map[string]int{"S001": 4})
	require.NoError(t, err)
	assert.Equal(t, calls, e.detector.calls, "no detection without a photo")
	assert.Zero(t, session.FacesDetected)
	assert.Zero(t, session.PresentCount)
	assert.Equal(t, 2, session.AbsentCount)

	records, _, err := e.attendance.Records(ctx, model.AttendanceFilter{}, 1, 50)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, model.StatusAbsent, r.Status)
		assert.Zero(t, r.Marks)
	}
}

func TestMarkRegisterModuleMismatch(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	other, err := e.quals.Create(ctx, model.QualificationRequest{Name: "Diploma in Accounting"})
	require.NoError(t, err)

	_, err = e.attendance.MarkRegister(ctx, e.lecturer.ID, other.ID, e.module.ID, testImage(t, 1), nil)
	assert.ErrorIs(t, err, ErrModuleMismatch)

	_, err = e.attendance.MarkRegister(ctx, e.lecturer.ID, e.qualification.ID, 999, testImage(t, 1), nil)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestAwardMarks(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.enroll(t, "S001", 1, encAt(0))
	e.enroll(t, "S002", 2, encAt(5))

	session, err := e.attendance.AwardMarks(ctx, e.lecturer.ID, e.qualification.ID, e.module.ID,
		SplitStudentIDs("S002, unknown,"), 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"S002"}, session.StudentIDs())

	st, err := e.students.Get(ctx, "S002")
	require.NoError(t, err)
	dash, err := e.attendance.Dashboard(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceSummary{Present: 1, TotalMarks: 4}, dash.Summary)
}

func TestLiveSession(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.enroll(t, "S001", 1, encAt(0))
	e.enroll(t, "S002", 2, encAt(5))

	f1, f2 := testImage(t, 60), testImage(t, 61)
	e.detector.add(f1, encAt(0.1))
	e.detector.add(f2, encAt(5.1), encAt(0.1))

	res, err := e.attendance.LiveFrame(ctx, "sess", f1)
	require.NoError(t, err)
	assert.Equal(t, []string{"S001"}, res.SessionMatched)

	res, err = e.attendance.LiveFrame(ctx, "sess", f2)
	require.NoError(t, err)
	assert.Equal(t, []string{"S001", "S002"}, res.Matched)
	assert.Equal(t, []string{"S001", "S002"}, res.SessionMatched)

	session, err := e.attendance.FinishLive(ctx, "sess", e.lecturer.ID, e.qualification.ID, e.module.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, session.PresentCount)

	records, _, err := e.attendance.Records(ctx, model.AttendanceFilter{Status: model.StatusPresent}, 1, 10)
	require.NoError(t, err)
	for _, r := range records {
		assert.Equal(t, 1, r.Marks)
	}

	res, err = e.attendance.LiveFrame(ctx, "sess", testImage(t, 62))
	require.NoError(t, err)
	assert.Empty(t, res.SessionMatched, "finished session starts empty")
}

func TestLiveCaptureRejectsBadDataURL(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.attendance.LiveCapture(context.Background(), e.lecturer.ID, model.LiveAttendanceRequest{
		CameraImage: "data:image/png;base64,%%%", QualificationID: e.qualification.ID, ModuleID: e.module.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDashboardNewestFirst(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	st := e.enroll(t, "S001", 1, encAt(0))

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		e.attendance.now = func() time.Time { return at }
		_, err := e.attendance.AwardMarks(ctx, e.lecturer.ID, e.qualification.ID, e.module.ID, nil, 0)
		require.NoError(t, err)
	}

	dash, err := e.attendance.Dashboard(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, dash.Records, 3)
	assert.True(t, dash.Records[0].RecordedAt.After(dash.Records[1].RecordedAt))
	assert.Equal(t, 3, dash.Summary.Absent)
	assert.Equal(t, "Networks", dash.Records[0].ModuleName)
}
