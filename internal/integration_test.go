package internal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restroom-queue-backend/internal/api"
	"restroom-queue-backend/internal/db"
	"restroom-queue-backend/internal/model"
	"restroom-queue-backend/internal/store"
)

// setupAPI builds the full router on top of an in-memory SQLite database,
// with stalls seeded from their display names the same way the daemon does
// at startup.
func setupAPI(t *testing.T, stallNames []string) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := testDB.DB()
		sqlDB.Close()
	})

	err = testDB.AutoMigrate(
		&model.Student{},
		&model.Stall{},
		&model.WaitingEntry{},
		&model.Session{},
		&model.QueueEvent{},
		&model.PushSubscription{},
	)
	require.NoError(t, err)

	require.NoError(t, db.SeedStalls(testDB, stallNames))

	// Generous limits so the test's request burst never trips the limiter.
	router := api.NewRouter(store.NewGormStore(testDB), nil, nil, api.RouterOptions{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
	})
	return testDB, router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// TestAssignmentLifecycle walks a full day-in-the-life over the HTTP surface:
// roster upload, two girls queue up, a proposed match is extended to a group,
// the stall is committed, and both students are released one after another.
func TestAssignmentLifecycle(t *testing.T) {
	testDB, router := setupAPI(t, []string{
		"Aseo Chicas 1ª Planta",
		"Aseo Chicos 1ª Planta",
	})

	// Roster upload.
	w := doJSON(t, router, http.MethodPost, "/api/students", gin.H{
		"students": []gin.H{
			{"full_name": "Ana García", "unit": "1ºA", "gender": "M"},
			{"full_name": "Lucía Pérez", "unit": "1ºB", "gender": "M"},
			{"full_name": "Pablo Ruiz", "unit": "2ºA", "gender": "H"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var inserted map[string]int
	decodeBody(t, w, &inserted)
	assert.Equal(t, 3, inserted["inserted"])

	w = doJSON(t, router, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var students []model.Student
	decodeBody(t, w, &students)
	require.Len(t, students, 3)

	idByName := make(map[string]string, len(students))
	for _, st := range students {
		idByName[st.FullName] = st.ID
	}

	// Both girls request a turn; Ana first.
	w = doJSON(t, router, http.MethodPost, "/api/queue", gin.H{"student_id": idByName["Ana García"]})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/queue", gin.H{"student_id": idByName["Lucía Pérez"]})
	require.Equal(t, http.StatusCreated, w.Code)

	// A repeat request while still waiting is a conflict.
	w = doJSON(t, router, http.MethodPost, "/api/queue", gin.H{"student_id": idByName["Ana García"]})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The proposal pairs the head of the girls' lane with the free girls'
	// stall. The boys' lane is empty, so there is exactly one proposal.
	w = doJSON(t, router, http.MethodGet, "/api/assignments/proposals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var proposals []store.SeedMatch
	decodeBody(t, w, &proposals)
	require.Len(t, proposals, 1)
	assert.Equal(t, idByName["Ana García"], proposals[0].Entry.StudentID)
	assert.Equal(t, model.GenderFemale, proposals[0].Stall.Gender)
	stallID := proposals[0].Stall.ID

	// The supervisor extends the proposal to both girls and commits.
	w = doJSON(t, router, http.MethodPost, "/api/assignments", gin.H{
		"student_ids": []string{idByName["Ana García"], idByName["Lucía Pérez"]},
		"stall_id":    stallID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var stall model.Stall
	require.NoError(t, testDB.First(&stall, stallID).Error)
	assert.Equal(t, model.StallOccupied, stall.Status)
	assert.Equal(t, "Ana García; Lucía Pérez", stall.OccupiedBy)
	assert.Equal(t, "1ºA; 1ºB", stall.OccupantUnits)

	// Nothing left to propose: the queue drained and the stall is taken.
	w = doJSON(t, router, http.MethodGet, "/api/assignments/proposals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &proposals)
	assert.Empty(t, proposals)

	// Ana leaves first; the stall stays occupied by Lucía.
	w = doJSON(t, router, http.MethodPost, "/api/releases", gin.H{
		"student_id": idByName["Ana García"],
		"condition":  "Bueno",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var release store.ReleaseResult
	decodeBody(t, w, &release)
	assert.Equal(t, stallID, release.StallID)
	assert.Equal(t, model.StallOccupied, release.StallStatus)

	require.NoError(t, testDB.First(&stall, stallID).Error)
	assert.Equal(t, "Lucía Pérez", stall.OccupiedBy)
	assert.Equal(t, "1ºB", stall.OccupantUnits)

	// Lucía leaves and reports the stall dirty; it goes back to free.
	w = doJSON(t, router, http.MethodPost, "/api/releases", gin.H{
		"student_id": idByName["Lucía Pérez"],
		"condition":  "Malo",
		"exit_notes": "papel por el suelo",
	})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &release)
	assert.Equal(t, model.StallFree, release.StallStatus)

	require.NoError(t, testDB.First(&stall, stallID).Error)
	assert.Equal(t, model.StallFree, stall.Status)
	assert.Empty(t, stall.OccupiedBy)
	assert.Empty(t, stall.OccupantUnits)

	// Releasing again with nobody inside is a conflict.
	w = doJSON(t, router, http.MethodPost, "/api/releases", gin.H{
		"student_id": idByName["Ana García"],
		"condition":  "Bueno",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Both visits are in the history, newest exit first.
	w = doJSON(t, router, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []model.Session
	decodeBody(t, w, &history)
	require.Len(t, history, 2)
	assert.Equal(t, idByName["Lucía Pérez"], history[0].StudentID)
	assert.Equal(t, model.ExitBad, history[0].ExitCondition)
	assert.Equal(t, "Aseo Chicas 1ª Planta", history[0].Stall.DisplayName)
}

// TestMaintenanceLifecycle puts an occupied stall into maintenance over the
// API and verifies the occupant's session is force-closed.
func TestMaintenanceLifecycle(t *testing.T) {
	testDB, router := setupAPI(t, []string{"Aseo Chicos 2ª Planta"})

	student := model.Student{ID: "m-pablo", FullName: "Pablo Ruiz", Unit: "2ºA", Gender: model.GenderMale}
	require.NoError(t, testDB.Create(&student).Error)

	var stall model.Stall
	require.NoError(t, testDB.First(&stall, "display_name = ?", "Aseo Chicos 2ª Planta").Error)
	require.Equal(t, model.GenderMale, stall.Gender)

	w := doJSON(t, router, http.MethodPost, "/api/queue", gin.H{"student_id": student.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/assignments", gin.H{
		"student_ids": []string{student.ID},
		"stall_id":    stall.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The janitor closes the stall while Pablo is inside.
	path := "/api/stalls/" + itoa(stall.ID) + "/maintenance"
	w = doJSON(t, router, http.MethodPut, path, gin.H{"enabled": true, "reason": "cisterna rota"})
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Stall
	decodeBody(t, w, &got)
	assert.Equal(t, model.StallMaintenance, got.Status)
	assert.Equal(t, "cisterna rota", got.MaintenanceReason)
	assert.Empty(t, got.OccupiedBy)

	w = doJSON(t, router, http.MethodGet, "/api/stalls/"+itoa(stall.ID)+"/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []model.Session
	decodeBody(t, w, &active)
	assert.Empty(t, active)

	// Back in service.
	w = doJSON(t, router, http.MethodPut, path, gin.H{"enabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &got)
	assert.Equal(t, model.StallFree, got.Status)
	assert.Empty(t, got.MaintenanceReason)
}

// TestQueueCancellation covers the explicit cancellation path.
func TestQueueCancellation(t *testing.T) {
	testDB, router := setupAPI(t, []string{"Aseo Chicas 1ª Planta"})

	student := model.Student{ID: "f-ana", FullName: "Ana García", Unit: "1ºA", Gender: model.GenderFemale}
	require.NoError(t, testDB.Create(&student).Error)

	w := doJSON(t, router, http.MethodPost, "/api/queue", gin.H{"student_id": student.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var entry model.WaitingEntry
	decodeBody(t, w, &entry)

	w = doJSON(t, router, http.MethodDelete, "/api/queue/"+itoa(entry.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Already cancelled.
	w = doJSON(t, router, http.MethodDelete, "/api/queue/"+itoa(entry.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown entry.
	w = doJSON(t, router, http.MethodDelete, "/api/queue/99999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/queue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var waiting []model.WaitingEntry
	decodeBody(t, w, &waiting)
	assert.Empty(t, waiting)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
