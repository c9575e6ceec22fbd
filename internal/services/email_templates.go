package services

// Branded HTML templates for transactional email.

const verificationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your Verification Code</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f8f9fa; margin: 0; padding: 20px; }
  .container { max-width: 500px; margin: auto; background: #ffffff; border: 1px solid #e9ecef; border-radius: 8px; overflow: hidden; }
  .header { background-color: #1d6f5c; color: white; padding: 20px; text-align: center; }
  .header h1 { margin: 0; font-size: 24px; }
  .content { padding: 30px; text-align: center; }
  .code { font-size: 36px; font-weight: bold; letter-spacing: 8px; color: #1d6f5c; background-color: #f1f3f5; padding: 15px 20px; border-radius: 5px; display: inline-block; margin: 20px 0; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
  p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Your Verification Code</h1>
    </div>
    <div class="content">
      <p>Please use the following code to complete your verification. This code will expire in 10 minutes.</p>
      <div class="code">%s</div>
      <p>If you did not request this code, you can safely ignore this email.</p>
    </div>
    <div class="footer">
      © %d OpenListings. All rights reserved.
    </div>
  </div>
</body>
</html>`

const listingApprovedEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Listing Approved</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f8f9fa; margin: 0; padding: 20px; }
  .container { max-width: 500px; margin: auto; background: #ffffff; border: 1px solid #e9ecef; border-radius: 8px; overflow: hidden; }
  .header { background-color: #1d6f5c; color: white; padding: 20px; text-align: center; }
  .content { padding: 30px; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
</style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>Your listing is live</h1></div>
    <div class="content">
      <p>Good news! Your listing <strong>%s</strong> has been approved and is now visible to everyone.</p>
    </div>
    <div class="footer">© %d OpenListings. All rights reserved.</div>
  </div>
</body>
</html>`

const listingRejectedEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Listing Needs Changes</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f8f9fa; margin: 0; padding: 20px; }
  .container { max-width: 500px; margin: auto; background: #ffffff; border: 1px solid #e9ecef; border-radius: 8px; overflow: hidden; }
  .header { background-color: #9d3a3a; color: white; padding: 20px; text-align: center; }
  .content { padding: 30px; }
  .reason { background-color: #fdf2f2; border-left: 4px solid #9d3a3a; padding: 10px 15px; margin: 15px 0; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
</style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>Your listing needs changes</h1></div>
    <div class="content">
      <p>Your listing <strong>%s</strong> was not approved.</p>
      <div class="reason">%s</div>
      <p>Edit and resubmit it from your dashboard. It will be reviewed again.</p>
    </div>
    <div class="footer">© %d OpenListings. All rights reserved.</div>
  </div>
</body>
</html>`

const inquiryEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>New Inquiry</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f8f9fa; margin: 0; padding: 20px; }
  .container { max-width: 500px; margin: auto; background: #ffffff; border: 1px solid #e9ecef; border-radius: 8px; overflow: hidden; }
  .header { background-color: #1d6f5c; color: white; padding: 20px; text-align: center; }
  .content { padding: 30px; }
  .message { background-color: #f1f3f5; border-radius: 5px; padding: 15px; margin: 15px 0; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
</style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>New inquiry about %s</h1></div>
    <div class="content">
      <div class="message">%s</div>
      <p>Reply from your dashboard to keep the conversation going.</p>
    </div>
    <div class="footer">© %d OpenListings. All rights reserved.</div>
  </div>
</body>
</html>`
