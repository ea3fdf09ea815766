package mailer

import "fmt"

// emailTemplate wraps content in the shared notification layout.
func emailTemplate(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #222; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #e25822;">%s</h2>
    %s
    <hr style="border: none; border-top: 1px solid #eee;"/>
    <p style="font-size: 12px; color: #888;">You are receiving this because you subscribed to a spark.</p>
  </body>
</html>`, title, content)
}

// TeaserMessage builds the mail sent when a scheduled teaser comes due.
func TeaserMessage(to, sparkTitle, teaserText string) Message {
	content := fmt.Sprintf(`
    <p>Exciting News!</p>
    <p>A teaser for the spark <strong>%s</strong> has just been released.</p>
    <p>%s</p>
    <p>Stay tuned for the full launch soon!</p>`, sparkTitle, teaserText)

	return Message{
		To:      to,
		Subject: "New Teaser for Spark",
		HTML:    emailTemplate("Spark Teaser", content),
	}
}

// SubscriptionMessage builds the confirmation mail for a new subscriber.
func SubscriptionMessage(to, sparkTitle string) Message {
	content := fmt.Sprintf(`
    <p>Congratulations!</p>
    <p>You have successfully subscribed to the spark: <strong>%s</strong>.</p>
    <p>Stay tuned for teasers and updates!</p>`, sparkTitle)

	return Message{
		To:      to,
		Subject: "Subscription Confirmation",
		HTML:    emailTemplate("Spark Subscription Confirmation", content),
	}
}

// UnsubscriptionMessage builds the farewell mail for a leaving subscriber.
func UnsubscriptionMessage(to, sparkTitle string) Message {
	content := fmt.Sprintf(`
    <p>You've successfully unsubscribed from the spark: <strong>%s</strong>.</p>
    <p>We're sorry to see you go! If you change your mind, you can always resubscribe.</p>
    <p>Stay tuned for other exciting sparks in the future!</p>`, sparkTitle)

	return Message{
		To:      to,
		Subject: "Unsubscribed from Spark",
		HTML:    emailTemplate("Spark Unsubscription Confirmation", content),
	}
}

// IgnitionMessage builds the mail sent when a spark officially launches.
func IgnitionMessage(to, sparkTitle, sparkLink string) Message {
	content := fmt.Sprintf(`
    <p>The wait is over!</p>
    <p>The spark <strong>%s</strong> has been officially launched.</p>
    <p>You can now view the spark here: <a href="%s">%s</a>.</p>
    <p>Enjoy the content and stay engaged!</p>`, sparkTitle, sparkLink, sparkLink)

	return Message{
		To:      to,
		Subject: "Spark Launched!",
		HTML:    emailTemplate("Spark Ignition", content),
	}
}
