package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunseop/automated-task-launcher/internal/errors"
)

func TestNewClientEmptyBaseURL(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)

	var lerr *errors.LauncherError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, errors.ErrCodeAPIBaseURL, lerr.Code)
}

func TestProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","name":"demo","status":"Waiting","tasks":[]}]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	projects, err := client.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "demo", projects[0].Name)
}

func TestProjectNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Project(context.Background(), "missing")
	require.Error(t, err)

	var lerr *errors.LauncherError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, errors.ErrCodeProjectNotFound, lerr.Code)
}

func TestUpdateTaskBody(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/update-task", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"message":"ok","task":{"name":"Import Rules","status":"Completed"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	values := map[string]string{"hostname": "fw01", "password": "secret"}
	prev := json.RawMessage(`{"success":true,"data":{"firewall_type":"paloalto"}}`)

	resp, err := client.UpdateTask(context.Background(), "p1", "Import Rules", values, prev)
	require.NoError(t, err)
	require.NotNil(t, resp.Task)
	assert.Equal(t, StatusCompleted, resp.Task.Status)

	// Form values are flattened into the body next to the identifiers,
	// and the previous result travels under previous_result.
	assert.Equal(t, "p1", captured["project_id"])
	assert.Equal(t, "Import Rules", captured["task_name"])
	assert.Equal(t, "fw01", captured["hostname"])
	assert.Equal(t, "secret", captured["password"])
	require.Contains(t, captured, "previous_result")
	prevBody, ok := captured["previous_result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, prevBody["success"])
}

func TestUpdateTaskOmitsEmptyPreviousResult(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.UpdateTask(context.Background(), "p1", "Select a Firewall Type",
		map[string]string{"firewall_type": "paloalto"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, captured, "previous_result")
}

func TestErrorDetailSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Previous task must be completed first"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.UpdateTask(context.Background(), "p1", "Import Rules", nil, nil)
	require.Error(t, err)

	var lerr *errors.LauncherError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, errors.ErrCodeAPIStatus, lerr.Code)
	assert.Equal(t, "Previous task must be completed first", lerr.Message)
}

func TestErrorWithoutDetailEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Projects(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestTaskTypeInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/task-type-info/firewall_connection", r.URL.Path)
		w.Write([]byte(`{
			"input_format": {"fields": [
				{"name": "hostname", "type": "text", "placeholder": "e.g. 10.0.0.1"},
				{"name": "password", "type": "password"},
				{"name": "firewall_type", "type": "select", "options": [
					{"value": "paloalto", "label": "Palo Alto"}
				]}
			]},
			"requires_previous": true
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	info, err := client.TaskTypeInfo(context.Background(), "firewall_connection")
	require.NoError(t, err)
	assert.True(t, info.RequiresPrevious)

	fields := info.FieldList()
	require.Len(t, fields, 3)
	assert.Equal(t, "e.g. 10.0.0.1", fields[0].Placeholder)
	require.Len(t, fields[2].Options, 1)
	assert.Equal(t, "Palo Alto", fields[2].Options[0].Label)
}

func TestRestartTask(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/restart-task/p1/Import%20Rules", r.URL.EscapedPath())
		w.Write([]byte(`{"message":"restarted"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	require.NoError(t, client.RestartTask(context.Background(), "p1", "Import Rules"))
	assert.True(t, called)
}

func TestDeleteProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/delete-project/p1", r.URL.Path)
		w.Write([]byte(`{"message":"deleted"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	require.NoError(t, client.DeleteProject(context.Background(), "p1"))
}

func TestProjectResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project-result/p1", r.URL.Path)
		w.Write([]byte(`{"result":{"type":"policy","data":[{"rulename":"r1"}]}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	result, err := client.ProjectResult(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, ResultKindPolicy, result.Type)
	assert.Len(t, result.PolicyRows(), 1)
}

func TestCreateProject(t *testing.T) {
	var captured CreateProjectRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p9"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	var template ProjectType
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Export Rules",
		"tasks": [
			{"name": "Select a Firewall Type", "type": "firewall_type_selection"},
			{"name": "Connect to Firewall", "type": "firewall_connection"}
		]
	}`), &template))

	require.NoError(t, client.CreateProject(context.Background(), "fw-audit", template))
	assert.Equal(t, "fw-audit", captured.Name)
	require.Len(t, captured.Tasks, 2)
	assert.Equal(t, "firewall_connection", captured.Tasks[1].Type)
}
