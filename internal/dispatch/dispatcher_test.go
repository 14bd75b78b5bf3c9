package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-dispatch/internal/database"
	"telegram-dispatch/internal/dispatch"
	apperrors "telegram-dispatch/internal/errors"
)

// fakeForwarder records every forward call it receives.
type fakeForwarder struct {
	calls  []forwardCall
	retErr error
}

type forwardCall struct {
	owner, repo, file, ref string
	inputs                 map[string]string
}

func (f *fakeForwarder) DispatchWorkflow(_ context.Context, owner, repo, workflowFile, gitRef string, inputs map[string]string) error {
	f.calls = append(f.calls, forwardCall{owner: owner, repo: repo, file: workflowFile, ref: gitRef, inputs: inputs})
	return f.retErr
}

// fakeStore captures saved audit records.
type fakeStore struct {
	saved []database.Dispatch
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) SaveDispatch(_ context.Context, d *database.Dispatch) error {
	s.saved = append(s.saved, *d)
	return nil
}

func (s *fakeStore) RecentDispatches(context.Context, int) ([]database.Dispatch, error) {
	return s.saved, nil
}

func (s *fakeStore) PurgeDispatchesBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

func testWorkflow() dispatch.WorkflowRef {
	return dispatch.WorkflowRef{Owner: "uploader-org", Repo: "uploader", File: "telegram-uploader.yml", Ref: "main"}
}

func TestNewDispatcher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		forwarder dispatch.Forwarder
		workflow  dispatch.WorkflowRef
		wantErr   bool
	}{
		{name: "valid", forwarder: &fakeForwarder{}, workflow: testWorkflow()},
		{name: "nil forwarder", forwarder: nil, workflow: testWorkflow(), wantErr: true},
		{name: "missing workflow repo", forwarder: &fakeForwarder{}, workflow: dispatch.WorkflowRef{Owner: "o", File: "f.yml"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := dispatch.NewDispatcher(tc.forwarder, tc.workflow, nil, nil)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewDispatcher() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTriggerForwardsExactlyOnce(t *testing.T) {
	t.Parallel()

	forwarder := &fakeForwarder{}
	store := &fakeStore{}
	d, err := dispatch.NewDispatcher(forwarder, testWorkflow(), store, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() failed: %v", err)
	}

	if err := d.Trigger(context.Background(), validRequest()); err != nil {
		t.Fatalf("Trigger() failed: %v", err)
	}

	if len(forwarder.calls) != 1 {
		t.Fatalf("Trigger() produced %d forward calls, want exactly 1", len(forwarder.calls))
	}

	call := forwarder.calls[0]
	if call.owner != "uploader-org" || call.repo != "uploader" || call.file != "telegram-uploader.yml" || call.ref != "main" {
		t.Errorf("Trigger() forwarded to %s/%s/%s@%s, want uploader-org/uploader/telegram-uploader.yml@main",
			call.owner, call.repo, call.file, call.ref)
	}

	want := map[string]string{
		"TELEGRAM_API_ID":             "12345",
		"TELEGRAM_API_HASH":           "abcxyz",
		"TELEGRAM_BOT_TOKEN":          "123:ABC",
		"TELEGRAM_CHAT_ID":            "-100123456",
		"CHANGELOG_GITHUB_REPOSITORY": "owner/repo",
	}
	for name, value := range want {
		if call.inputs[name] != value {
			t.Errorf("forwarded input %q = %q, want %q", name, call.inputs[name], value)
		}
	}
	if len(call.inputs) != len(want) {
		t.Errorf("forwarded %d inputs, want %d: %v", len(call.inputs), len(want), call.inputs)
	}

	if len(store.saved) != 1 {
		t.Fatalf("Trigger() saved %d audit records, want 1", len(store.saved))
	}
	record := store.saved[0]
	if record.Status != database.StatusForwarded {
		t.Errorf("audit record status = %q, want %q", record.Status, database.StatusForwarded)
	}
	if record.ChangelogRepository != "owner/repo" {
		t.Errorf("audit record changelog repository = %q, want %q", record.ChangelogRepository, "owner/repo")
	}
}

func TestTriggerWithoutChangelogRepository(t *testing.T) {
	t.Parallel()

	forwarder := &fakeForwarder{}
	d, err := dispatch.NewDispatcher(forwarder, testWorkflow(), nil, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() failed: %v", err)
	}

	req := validRequest()
	req.ChangelogRepository = ""
	if err := d.Trigger(context.Background(), req); err != nil {
		t.Fatalf("Trigger() failed: %v", err)
	}

	if len(forwarder.calls) != 1 {
		t.Fatalf("Trigger() produced %d forward calls, want 1", len(forwarder.calls))
	}
	if _, ok := forwarder.calls[0].inputs["CHANGELOG_GITHUB_REPOSITORY"]; ok {
		t.Errorf("forwarded inputs contain CHANGELOG_GITHUB_REPOSITORY, want it absent")
	}
	if forwarder.calls[0].inputs["TELEGRAM_API_HASH"] != "abcxyz" {
		t.Errorf("required inputs changed when optional input absent: %v", forwarder.calls[0].inputs)
	}
}

func TestTriggerRejectsBeforeForwarding(t *testing.T) {
	t.Parallel()

	mutations := map[string]func(*dispatch.Request){
		"missing API_ID":    func(r *dispatch.Request) { r.APIID = 0 },
		"missing API_HASH":  func(r *dispatch.Request) { r.APIHash = "" },
		"missing BOT_TOKEN": func(r *dispatch.Request) { r.BotToken = "" },
		"missing CHAT_ID":   func(r *dispatch.Request) { r.ChatID = 0 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			forwarder := &fakeForwarder{}
			store := &fakeStore{}
			d, err := dispatch.NewDispatcher(forwarder, testWorkflow(), store, nil)
			if err != nil {
				t.Fatalf("NewDispatcher() failed: %v", err)
			}

			req := validRequest()
			mutate(&req)

			err = d.Trigger(context.Background(), req)
			if err == nil {
				t.Fatal("Trigger() succeeded, want validation error")
			}
			var validationErr *apperrors.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Trigger() error = %v, want ValidationError", err)
			}
			if len(forwarder.calls) != 0 {
				t.Errorf("Trigger() produced %d forward calls before rejection, want 0", len(forwarder.calls))
			}
			if len(store.saved) != 0 {
				t.Errorf("Trigger() saved %d audit records for rejected request, want 0", len(store.saved))
			}
		})
	}
}

func TestTriggerSurfacesForwardError(t *testing.T) {
	t.Parallel()

	forwardErr := apperrors.NewAPIError("workflow dispatch failed", errors.New("boom"))
	forwarder := &fakeForwarder{retErr: forwardErr}
	store := &fakeStore{}
	d, err := dispatch.NewDispatcher(forwarder, testWorkflow(), store, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() failed: %v", err)
	}

	err = d.Trigger(context.Background(), validRequest())
	if !errors.Is(err, forwardErr) {
		t.Fatalf("Trigger() error = %v, want the forwarder error surfaced as-is", err)
	}

	// Exactly one attempt even on failure: no local retries.
	if len(forwarder.calls) != 1 {
		t.Errorf("Trigger() produced %d forward calls on failure, want 1", len(forwarder.calls))
	}

	if len(store.saved) != 1 {
		t.Fatalf("Trigger() saved %d audit records, want 1", len(store.saved))
	}
	record := store.saved[0]
	if record.Status != database.StatusFailed {
		t.Errorf("audit record status = %q, want %q", record.Status, database.StatusFailed)
	}
	if record.ErrorCode != apperrors.CodeAPI {
		t.Errorf("audit record error code = %q, want %q", record.ErrorCode, apperrors.CodeAPI)
	}
}
