// Package i18n holds the user-facing message table keyed by error kind.
package i18n

import "golang.org/x/text/language"

// Kind identifies a user-facing message independent of locale.
type Kind string

const (
	KindInvalidEmail       Kind = "invalid_email"
	KindPasswordTooShort   Kind = "password_too_short"
	KindUsernameTooShort   Kind = "username_too_short"
	KindEmailTaken         Kind = "email_taken"
	KindUsernameTaken      Kind = "username_taken"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUserNotFound       Kind = "user_not_found"
	KindServerError        Kind = "server_error"
	KindProfileUpdated     Kind = "profile_updated"
	KindUserDeleted        Kind = "user_deleted"
	KindWelcomeBack        Kind = "welcome_back"
)

var japanese = map[Kind]string{
	KindInvalidEmail:       "有効なメールアドレスを入力してください",
	KindPasswordTooShort:   "パスワードは8文字以上で入力してください",
	KindUsernameTooShort:   "ユーザー名は3文字以上で入力してください",
	KindEmailTaken:         "このメールアドレスは既に使用されています",
	KindUsernameTaken:      "このユーザー名は既に使用されています",
	KindInvalidCredentials: "メールアドレスまたはパスワードが正しくありません",
	KindUserNotFound:       "ユーザーが見つかりません",
	KindServerError:        "サーバーエラーが発生しました",
	KindProfileUpdated:     "プロフィールを更新しました",
	KindUserDeleted:        "ユーザーを削除しました",
	KindWelcomeBack:        "おかえりなさい",
}

var english = map[Kind]string{
	KindInvalidEmail:       "Please enter a valid email address",
	KindPasswordTooShort:   "Password must be at least 8 characters",
	KindUsernameTooShort:   "Username must be at least 3 characters",
	KindEmailTaken:         "This email address is already in use",
	KindUsernameTaken:      "This username is already in use",
	KindInvalidCredentials: "Incorrect email address or password",
	KindUserNotFound:       "User not found",
	KindServerError:        "A server error occurred",
	KindProfileUpdated:     "Profile updated",
	KindUserDeleted:        "User deleted",
	KindWelcomeBack:        "Welcome back",
}

// Catalog resolves message kinds to localized strings. Japanese is the
// authoritative locale: service-layer error strings are part of the
// application contract and are always emitted from the Japanese table.
type Catalog struct {
	matcher language.Matcher
	tables  map[language.Tag]map[Kind]string
}

// Default returns the catalog with Japanese as the primary locale.
func Default() *Catalog {
	return &Catalog{
		matcher: language.NewMatcher([]language.Tag{language.Japanese, language.English}),
		tables: map[language.Tag]map[Kind]string{
			language.Japanese: japanese,
			language.English:  english,
		},
	}
}

// Message returns the message for kind in the primary locale.
func (c *Catalog) Message(kind Kind) string {
	return c.tables[language.Japanese][kind]
}

// MessageFor matches an Accept-Language header value and returns the
// message for kind in the best-matching locale.
func (c *Catalog) MessageFor(acceptLanguage string, kind Kind) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.Message(kind)
	}
	tag, _, _ := c.matcher.Match(tags...)
	base, _ := tag.Base()
	for candidate, table := range c.tables {
		if cb, _ := candidate.Base(); cb == base {
			if msg, ok := table[kind]; ok {
				return msg
			}
		}
	}
	return c.Message(kind)
}
