package email

import "fmt"

// message is a rendered mail ready for any adapter.
type message struct {
	Subject string
	HTML    string
	Text    string
}

func otpTemplate(to Recipient, otp string) message {
	return message{
		Subject: "Your verification code",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>Thank you for registering. Enter the following code to verify your email address:</p>
<p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p>
<p>The code is valid for <strong>15 minutes</strong>. After verification your
account will be reviewed by our team.</p>
<p>If you did not request this, please ignore this email.</p>`, to.FirstName, otp),
		Text: fmt.Sprintf(`Hello %s,

Thank you for registering. Enter the following code to verify your email address:

    %s

The code is valid for 15 minutes. After verification your account will be
reviewed by our team.

If you did not request this, please ignore this email.`, to.FirstName, otp),
	}
}

func verificationSuccessTemplate(to Recipient) message {
	return message{
		Subject: "Email verified",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>Your email address has been verified and your account was created.</p>
<p>Our team will review your registration. You will be able to log in once an
administrator approves your account.</p>`, to.FirstName),
		Text: fmt.Sprintf(`Hello %s,

Your email address has been verified and your account was created.

Our team will review your registration. You will be able to log in once an
administrator approves your account.`, to.FirstName),
	}
}

func welcomeTemplate(to Recipient) message {
	return message{
		Subject: "Welcome to the studio dashboard",
		HTML: fmt.Sprintf(`<p>Hello %s,</p>
<p>Your account has been approved. You can now log in to the studio dashboard
and get started.</p>`, to.FirstName),
		Text: fmt.Sprintf(`Hello %s,

Your account has been approved. You can now log in to the studio dashboard and
get started.`, to.FirstName),
	}
}
