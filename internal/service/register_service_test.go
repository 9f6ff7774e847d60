package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseAttendanceTime(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)

	got := ParseAttendanceTime("2025-03-04 10:11:12", now)
	assert.Equal(t, time.Date(2025, 3, 4, 10, 11, 12, 0, time.Local), got)

	assert.Equal(t, now, ParseAttendanceTime("", now))
	assert.Equal(t, now, ParseAttendanceTime("04/03/2025", now))
}

func TestSplitStudentIDs(t *testing.T) {
	assert.Equal(t, []string{"S1", "S2"}, SplitStudentIDs(" S1,S2, ,S1"))
	assert.Empty(t, SplitStudentIDs(""))
}

func TestSaveAndListRegisters(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	older, err := e.registers.Save(ctx, model.SaveRegisterRequest{
		ModuleName: "Networks", AttendanceTime: "2025-03-04 10:00:00", StudentIDs: "S1,S2",
	}, "Dr Banda")
	require.NoError(t, err)
	assert.Equal(t, "Dr Banda", older.LecturerName)
	assert.Equal(t, []string{"S1", "S2"}, older.StudentNumbers)

	newer, err := e.registers.Save(ctx, model.SaveRegisterRequest{
		ModuleName: "Networks", LecturerName: "Guest", AttendanceTime: "2025-03-05 10:00:00",
	}, "Dr Banda")
	require.NoError(t, err)
	assert.Equal(t, "Guest", newer.LecturerName)

	regs, pag, err := e.registers.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, newer.ID, regs[0].ID)
	assert.Equal(t, 2, pag.TotalItems)

	_, err = e.registers.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrRegisterNotFound)
}

func TestExportRegisterXLSX(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.enroll(t, "S001", 1, encAt(0))

	reg, err := e.registers.Save(ctx, model.SaveRegisterRequest{
		ModuleName: "Networks", AttendanceTime: "2025-03-04 10:00:00", StudentIDs: "S001,ghost",
	}, "Dr Banda")
	require.NoError(t, err)

	out, err := e.registers.ExportSaved(ctx, reg.ID, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "register_20250304_100000.xlsx", out.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Register", "B8")
	require.NoError(t, err)
	assert.Equal(t, "Student S001", v)
	v, err = f.GetCellValue("Register", "A9")
	require.NoError(t, err)
	assert.Empty(t, v, "unknown students are left out")

	_, err = e.registers.ExportForm(ctx, model.SaveRegisterRequest{ModuleName: "X"}, "Dr Banda", "docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRegisterModuleDefaultsToUnknown(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	reg, err := e.registers.Save(ctx, model.SaveRegisterRequest{ModuleName: "  ", StudentIDs: "S1"}, "Dr Banda")
	require.NoError(t, err)
	assert.Equal(t, UnknownModuleName, reg.ModuleName)
}

func TestExportFormPrintsAttendanceTimeAsTyped(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	out, err := e.registers.ExportForm(ctx, model.SaveRegisterRequest{
		AttendanceTime: " 4 March, morning ",
	}, "Dr Banda", "xlsx")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.FileName, "register_"))

	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer f.Close()
	get := func(cell string) string {
		v, err := f.GetCellValue("Register", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, UnknownModuleName, get("B3"))
	assert.Equal(t, "4 March, morning", get("B5"))

	out, err = e.registers.ExportForm(ctx, model.SaveRegisterRequest{
		AttendanceTime: "2025-03-04 10:00:00",
	}, "Dr Banda", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "register_20250304_100000.xlsx", out.FileName)
}
