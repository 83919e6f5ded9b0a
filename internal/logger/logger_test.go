package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "debug", true)
	l.WithField("registration_id", "r1").Info("submitted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "submitted" || entry["registration_id"] != "r1" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewLogger_Level(t *testing.T) {
	tt := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"warn":  logrus.WarnLevel,
		"bogus": logrus.InfoLevel,
		"":      logrus.InfoLevel,
	}
	for in, want := range tt {
		if got := newLogger(&bytes.Buffer{}, in, false).GetLevel(); got != want {
			t.Errorf("level %q = %v, want %v", in, got, want)
		}
	}
}
