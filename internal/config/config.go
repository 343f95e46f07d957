package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	Stripe  Stripe  `envPrefix:"STRIPE_"`
	Email   Email   `envPrefix:"EMAIL_"`
	Discord Discord `envPrefix:"DISCORD_"`
	Codes   Codes   `envPrefix:"CODES_"`
	Auth    Auth

	// Link to the generator tool included in access-code emails.
	GeneratorLink string `env:"GENERATOR_LINK" envDefault:"https://mambagen.up.railway.app/gen.html"`

	// Optional JSON override for the payment-link catalog.
	PaymentLinksJSON string `env:"PAYMENT_LINKS"`
}

type Stripe struct {
	APIKey        string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Email struct {
	Host     string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"PORT" envDefault:"465"`
	Username string `env:"USER"`
	Password string `env:"PASS"`
	From     string `env:"FROM"`
}

// Configured reports whether outbound mail can be sent at all.
// Missing credentials degrade mail to a warned no-op instead of a crash.
func (e Email) Configured() bool {
	return e.Username != "" && e.Password != ""
}

type Discord struct {
	BotToken string `env:"BOT_TOKEN"`
	ClientID string `env:"CLIENT_ID"`
	GuildID  string `env:"GUILD_ID"`
	RoleID   string `env:"ROLE_ID"`
}

func (d Discord) Configured() bool {
	return d.BotToken != "" && d.GuildID != ""
}

type Codes struct {
	// Optional file with one access code per line; overrides the embedded pool.
	File string `env:"FILE"`
	// Codes at positions [0, ObywatelCount) seed the obywatel product,
	// the remainder seed receipts.
	ObywatelCount int `env:"OBYWATEL_COUNT" envDefault:"200"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsDevelopment() bool {
	return e.Name == "development"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
