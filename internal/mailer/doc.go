// Package mailer delivers transactional email. A single Transport is built
// at startup from configuration: a real SMTP client when credentials are
// present, otherwise a local sandbox that writes messages to disk and hands
// back a preview reference.
package mailer
