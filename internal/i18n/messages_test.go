package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanriapp/kanri/internal/i18n"
	_ "github.com/kanriapp/kanri/testing"
)

func TestMessageDefaultsToJapanese(t *testing.T) {
	c := i18n.Default()
	assert.Equal(t, "このメールアドレスは既に使用されています", c.Message(i18n.KindEmailTaken))
	assert.Equal(t, "メールアドレスまたはパスワードが正しくありません", c.Message(i18n.KindInvalidCredentials))
}

func TestMessageForAcceptLanguage(t *testing.T) {
	c := i18n.Default()

	assert.Equal(t, "This email address is already in use", c.MessageFor("en-US,en;q=0.9", i18n.KindEmailTaken))
	assert.Equal(t, "このメールアドレスは既に使用されています", c.MessageFor("ja,en;q=0.5", i18n.KindEmailTaken))
}

func TestMessageForMalformedHeaderFallsBack(t *testing.T) {
	c := i18n.Default()
	assert.Equal(t, c.Message(i18n.KindServerError), c.MessageFor(";;;", i18n.KindServerError))
}
