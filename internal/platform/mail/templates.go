// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package mail

import "fmt"

// PasswordResetSubject is the subject line for the password-reset email.
const PasswordResetSubject = "Reset Your Password"

// PasswordResetHTML renders the password-reset email body with the one-time
// reset link embedded.
func PasswordResetHTML(resetURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="margin: 0; padding: 0; background-color: #f4f4f7; font-family: Arial, sans-serif;">
    <table role="presentation" width="100%%" cellpadding="0" cellspacing="0">
      <tr>
        <td align="center" style="padding: 32px 16px;">
          <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; padding: 32px;">
            <tr>
              <td style="font-size: 20px; font-weight: bold; color: #333333; padding-bottom: 16px;">
                Reset Your Password
              </td>
            </tr>
            <tr>
              <td style="font-size: 14px; color: #555555; line-height: 1.6; padding-bottom: 24px;">
                We have received a request to reset your password. Please click the button below to create
                a new one. This link is valid for 30 minutes.
              </td>
            </tr>
            <tr>
              <td align="center" style="padding-bottom: 24px;">
                <a href="%s" style="display: inline-block; background-color: #4f46e5; color: #ffffff; text-decoration: none; padding: 12px 28px; border-radius: 6px; font-size: 14px;">Reset Password</a>
              </td>
            </tr>
            <tr>
              <td style="font-size: 12px; color: #999999; line-height: 1.5;">
                If you did not request a password reset, please ignore this email.
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`, resetURL)
}
