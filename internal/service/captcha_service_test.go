package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/constants"
)

func TestCaptchaSceneDisabledSkipsVerification(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: constants.CaptchaProviderNone, Scenes: config.CaptchaSceneConfig{Login: true}})
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("provider none should skip verification: %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("want ErrCaptchaConfigInvalid got %v", err)
	}
}

func TestCaptchaImageVerify(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "IMAGE", Scenes: config.CaptchaSceneConfig{Login: true}})

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/") {
		t.Fatalf("unexpected challenge %+v", challenge.CaptchaID)
	}

	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("want ErrCaptchaRequired got %v", err)
	}

	if err := svc.store().Set("fixed-id", "abcde"); err != nil {
		t.Fatalf("seed store failed: %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{CaptchaID: "fixed-id", CaptchaCode: "nope"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("want ErrCaptchaInvalid got %v", err)
	}
	if err := svc.store().Set("fixed-id", "abcde"); err != nil {
		t.Fatalf("seed store failed: %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{CaptchaID: "fixed-id", CaptchaCode: "abcde"}); err != nil {
		t.Fatalf("valid answer rejected: %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{CaptchaID: "fixed-id", CaptchaCode: "abcde"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("answer should be single use, got %v", err)
	}
}
