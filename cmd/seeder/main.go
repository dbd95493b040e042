package main

import (
	"go.uber.org/zap"

	"github.com/mailward/campaigner/internal/config"
	"github.com/mailward/campaigner/internal/db"
	"github.com/mailward/campaigner/internal/model"
	"github.com/mailward/campaigner/internal/repository"
)

// Seeds the template store with the starter set. Safe to re-run: templates are
// upserted by name.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.InitSchema(conn); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	repo := &repository.TemplateRepository{DB: conn}
	for _, tmpl := range sampleTemplates() {
		t := tmpl
		if err := repo.Create(&t); err != nil {
			logger.Fatal("failed to seed template", zap.String("template", t.Name), zap.Error(err))
		}
		logger.Info("seeded template", zap.String("template", t.Name))
	}
}

func sampleTemplates() []model.EmailTemplate {
	return []model.EmailTemplate{
		{
			Name:    "welcome_email",
			Subject: "Welcome to Our Service, {{first_name}}!",
			BodyHTML: `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #4CAF50; color: white; padding: 20px; text-align: center;">
      <h1>Welcome to Our Service!</h1>
    </div>
    <div style="padding: 20px; background-color: #f9f9f9;">
      <h2>Hello {{first_name}},</h2>
      <p>Thank you for joining our service! We're excited to have you on board.</p>
      <p>Here's what you can expect:</p>
      <ul>
        <li>24/7 customer support</li>
        <li>Regular updates and new features</li>
        <li>Exclusive member benefits</li>
      </ul>
      <p>If you have any questions, feel free to reach out to our support team.</p>
    </div>
  </div>
</body>
</html>`,
			BodyText: `Welcome to Our Service!

Hello {{first_name}},

Thank you for joining our service! We're excited to have you on board.

Here's what you can expect:
- 24/7 customer support
- Regular updates and new features
- Exclusive member benefits

If you have any questions, feel free to reach out to our support team.`,
		},
		{
			Name:    "newsletter",
			Subject: "Monthly Newsletter - {{company}}",
			BodyHTML: `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Hello {{first_name}},</h2>
    <p>Here's what's new this month:</p>
    <ul>
      <li>Product updates and improvements</li>
      <li>Tips to get more out of your account</li>
      <li>Upcoming events and webinars</li>
    </ul>
    <p>Thanks for being with us,<br>The Team</p>
  </div>
</body>
</html>`,
			BodyText: `Hello {{first_name}},

Here's what's new this month:
- Product updates and improvements
- Tips to get more out of your account
- Upcoming events and webinars

Thanks for being with us,
The Team`,
		},
		{
			Name:    "promotional_offer",
			Subject: "Special 30% Off Offer for {{first_name}}!",
			BodyHTML: `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Hello {{first_name}},</h2>
    <p>For a limited time, enjoy 30% off your next purchase.</p>
    <p>This offer is valid for {{first_name}} {{last_name}} only.</p>
    <p>Use code <strong>SAVE30</strong> at checkout.</p>
  </div>
</body>
</html>`,
			BodyText: `Hello {{first_name}},

For a limited time, enjoy 30% off your next purchase.
This offer is valid for {{first_name}} {{last_name}} only.

Use code SAVE30 at checkout.`,
		},
		{
			Name:    "follow_up",
			Subject: "How are things going, {{first_name}}?",
			BodyHTML: `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Hello {{first_name}},</h2>
    <p>Just checking in to see how things are going with your account.</p>
    <p>If there's anything we can help with, reply to this email and we'll get right on it.</p>
  </div>
</body>
</html>`,
			BodyText: `Hello {{first_name}},

Just checking in to see how things are going with your account.
If there's anything we can help with, reply to this email and we'll get right on it.`,
		},
	}
}
