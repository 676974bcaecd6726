package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"
)

func TestInitLoggerReplacesGlobal(t *testing.T) {
	before := GetLogger()
	if err := InitLogger(&LogConfig{Level: "debug", Environment: "test", ServiceName: "catalog-console"}); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	if GetLogger() == before {
		t.Fatal("expected a new logger instance")
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := zaptest.NewLogger(t)
	ctx := WithContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("logger not found in context")
	}
	if FromContext(context.Background()) != GetLogger() {
		t.Fatal("expected fallback to global logger")
	}
	if _, ok := Lookup(context.Background()); ok {
		t.Fatal("Lookup found a logger in an empty context")
	}
}

func TestFromEcho(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if FromEcho(c) != GetLogger() {
		t.Fatal("expected fallback to global logger")
	}

	l := zaptest.NewLogger(t)
	c.Set(EchoKey, l)
	if FromEcho(c) != l {
		t.Fatal("expected request logger")
	}
}
