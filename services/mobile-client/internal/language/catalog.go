package language

import (
	"fmt"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/or"
	ut "github.com/go-playground/universal-translator"
)

// Message keys shared by the onboarding screens.
const (
	MsgInvalidPhone       = "invalid_phone"
	MsgInvalidOTP         = "invalid_otp"
	MsgVerificationFailed = "verification_failed"
	MsgCodeNotSent        = "code_not_sent"
	MsgVerified           = "verified"
)

var catalog = map[string]map[string]string{
	"en": {
		MsgInvalidPhone:       "Invalid mobile number",
		MsgInvalidOTP:         "Please enter 4-digit OTP",
		MsgVerificationFailed: "Verification failed. Please try again",
		MsgCodeNotSent:        "Could not send OTP. Please try again",
		MsgVerified:           "Mobile number verified",
	},
	"or": {
		MsgInvalidPhone:       "ଅବୈଧ ମୋବାଇଲ୍ ନମ୍ବର",
		MsgInvalidOTP:         "ଦୟାକରି 4-ଅଙ୍କ ବିଶିଷ୍ଟ OTP ପ୍ରବେଶ କରନ୍ତୁ",
		MsgVerificationFailed: "ଯାଞ୍ଚ ବିଫଳ ହେଲା। ଦୟାକରି ପୁଣି ଚେଷ୍ଟା କରନ୍ତୁ",
		MsgCodeNotSent:        "OTP ପଠାଯାଇପାରିଲା ନାହିଁ। ଦୟାକରି ପୁଣି ଚେଷ୍ଟା କରନ୍ତୁ",
		MsgVerified:           "ମୋବାଇଲ୍ ନମ୍ବର ଯାଞ୍ଚ ହୋଇଛି",
	},
}

func newUniversalTranslator() (*ut.UniversalTranslator, error) {
	english := en.New()
	uni := ut.New(english, english, or.New())

	for tag, messages := range catalog {
		trans, found := uni.GetTranslator(tag)
		if !found {
			return nil, fmt.Errorf("no locale registered for %q", tag)
		}
		for key, text := range messages {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("add %s translation %q: %w", tag, key, err)
			}
		}
	}

	return uni, nil
}
