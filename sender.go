package auth

import (
	"context"
	"fmt"
)

// logSender is the default CodeSender, it prints the notification
// instead of delivering it. Wire a real sender in production.
type logSender struct {
	logger Logger
}

var _ CodeSender = (*logSender)(nil)

func (l *logSender) SendCode(_ context.Context, account *Account, code string, purpose CodePurpose) error {
	to := ""
	if account != nil {
		to = account.Email
		if to == "" {
			to = account.Phone
		}
	}

	printCodeNotification(to, code, purpose)
	l.logger.Info("verification code issued to %s for %s", to, purpose)

	return nil
}

func printCodeNotification(to, code string, purpose CodePurpose) {
	fmt.Println("====== SENDING CODE NOTIFICATION =======")
	fmt.Printf("to: %s\n", to)
	fmt.Printf("purpose: %s\n", purpose)
	fmt.Printf("code: %s\n", code)
}
