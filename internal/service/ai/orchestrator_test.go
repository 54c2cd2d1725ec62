package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/echoself/backend/internal/config"
)

type staticCredentials struct {
	key string
	err error
}

func (s staticCredentials) Credential(context.Context) (string, error) {
	return s.key, s.err
}

type stubRemote struct {
	reply string
	err   error
	calls int
}

func (r *stubRemote) Generate(context.Context, string, string, bool) (string, error) {
	r.calls++
	return r.reply, r.err
}

func newTestOrchestrator(creds CredentialSource, remote Remote, buildErr error) (*Orchestrator, *int) {
	builds := 0
	o := NewOrchestrator(config.AIConfig{Timeout: time.Second}, creds, NewSeededFallbackGenerator(1))
	o.newRemote = func(context.Context, config.AIConfig, string) (Remote, error) {
		builds++
		if buildErr != nil {
			return nil, buildErr
		}
		return remote, nil
	}
	return o, &builds
}

func TestRespondWithoutCredentialUsesFallback(t *testing.T) {
	o, builds := newTestOrchestrator(staticCredentials{}, nil, nil)

	reply := o.Respond(context.Background(), "hello", samplePersona(false))
	if !strings.HasPrefix(reply, "Hey there! I'm Ada.") {
		t.Fatalf("expected fallback greeting, got %q", reply)
	}
	if *builds != 0 {
		t.Fatalf("remote must not be built without a credential, built %d times", *builds)
	}
}

func TestRespondRemoteFailureFallsBack(t *testing.T) {
	remote := &stubRemote{err: errors.New("upstream 500")}
	o, _ := newTestOrchestrator(staticCredentials{key: "sk-test"}, remote, nil)

	reply := o.Respond(context.Background(), "hello", samplePersona(false))
	if remote.calls != 1 {
		t.Fatalf("expected a single remote attempt, got %d", remote.calls)
	}
	if !strings.HasPrefix(reply, "Hey there! I'm Ada.") {
		t.Fatalf("expected fallback greeting after remote failure, got %q", reply)
	}
}

func TestRespondRemoteBuildFailureFallsBack(t *testing.T) {
	o, _ := newTestOrchestrator(staticCredentials{key: "sk-test"}, nil, errors.New("bad base url"))

	reply := o.Respond(context.Background(), "hello", samplePersona(false))
	if !strings.HasPrefix(reply, "Hey there! I'm Ada.") {
		t.Fatalf("expected fallback greeting after build failure, got %q", reply)
	}
}

func TestRespondRemoteSuccess(t *testing.T) {
	remote := &stubRemote{reply: "Greetings from the model."}
	o, _ := newTestOrchestrator(staticCredentials{key: "sk-test"}, remote, nil)

	reply := o.Respond(context.Background(), "hello", samplePersona(false))
	if reply != "Greetings from the model." {
		t.Fatalf("expected remote reply, got %q", reply)
	}
}

func TestRespondEmptyRemoteContent(t *testing.T) {
	remote := &stubRemote{reply: ""}
	o, _ := newTestOrchestrator(staticCredentials{key: "sk-test"}, remote, nil)

	reply := o.Respond(context.Background(), "hello", samplePersona(false))
	if reply != emptyRemoteReply {
		t.Fatalf("expected placeholder for empty remote content, got %q", reply)
	}
}

func TestRemoteHandleCachedPerCredential(t *testing.T) {
	remote := &stubRemote{reply: "ok"}
	o, builds := newTestOrchestrator(staticCredentials{key: "sk-one"}, remote, nil)

	o.Respond(context.Background(), "hello", samplePersona(false))
	o.Respond(context.Background(), "hello again", samplePersona(false))
	if *builds != 1 {
		t.Fatalf("expected one build for a stable credential, got %d", *builds)
	}

	o.credentials = staticCredentials{key: "sk-two"}
	o.Respond(context.Background(), "hello", samplePersona(false))
	if *builds != 2 {
		t.Fatalf("expected rebuild after credential change, got %d builds", *builds)
	}
}

func TestRespondCredentialErrorFallsBack(t *testing.T) {
	o, builds := newTestOrchestrator(staticCredentials{err: errors.New("store down")}, nil, nil)

	reply := o.Respond(context.Background(), "hello", samplePersona(false))
	if !strings.HasPrefix(reply, "Hey there! I'm Ada.") {
		t.Fatalf("expected fallback when credential lookup fails, got %q", reply)
	}
	if *builds != 0 {
		t.Fatal("remote must not be built when no credential is resolvable")
	}
}
