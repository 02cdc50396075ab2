package templates

import (
	"fmt"
	"html"
	"strings"
)

// RenderEvaluationReceivedEmail generates the HTML for the email sent to a
// professional when a requester files an evaluation about them. The comment
// is HTML-escaped and newlines become <br> tags.
func RenderEvaluationReceivedEmail(displayName string, rating int, comment string) string {
	escapedComment := strings.ReplaceAll(html.EscapeString(comment), "\n", "<br>")
	if escapedComment == "" {
		escapedComment = "No written comment was left."
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>New Evaluation - DenTeeth</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f7fb; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #2dd4bf 0%%, #0ea5e9 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #1f2937; }
    .content h2 { color: #0f172a; margin-top: 0; }
    .rating-box { background: rgba(14, 165, 233, 0.08); border: 1px solid rgba(14, 165, 233, 0.3); border-radius: 12px; padding: 20px; margin: 20px 0; }
    .rating-box h3 { color: #0ea5e9; margin-top: 0; font-size: 16px; }
    .comment { color: #4b5563; font-size: 14px; line-height: 22px; }
    .footer { padding: 20px 30px; color: #9ca3af; font-size: 12px; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>DenTeeth</h1></div>
    <div class="content">
      <h2>Hello, %s</h2>
      <p>A patient just filed an evaluation about the assistance you provided.</p>
      <div class="rating-box">
        <h3>Rating: %d/5</h3>
        <p class="comment">%s</p>
      </div>
      <p>Thank you for being available when it mattered.</p>
    </div>
    <div class="footer">This is an automated message, please do not reply.</div>
  </div>
</body>
</html>`, html.EscapeString(displayName), rating, escapedComment)
}
