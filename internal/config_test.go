package internal_test

import (
	"os"
	"time"

	"github.com/frahmantamala/calong-tick/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Database: internal.DatabaseConfig{Source: "postgres://localhost:5432/calong?sslmode=disable"},
		Security: internal.SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
	}
	cfg.SetDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	Describe("SetDefaults", func() {
		It("fills clock and security defaults", func() {
			cfg := validConfig()
			Expect(cfg.Clock.Timezone).To(Equal("UTC"))
			Expect(cfg.Clock.PinMaxAttempts).To(Equal(20))
			Expect(cfg.Security.BCryptCost).To(Equal(10))
			Expect(cfg.Security.AccessTokenDuration).To(Equal(24 * time.Hour))
			Expect(cfg.Server.Port).To(Equal(5000))
		})
	})

	Describe("Validate", func() {
		It("accepts a complete config", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		It("rejects a short jwt secret", func() {
			cfg := validConfig()
			cfg.Security.JWTSecret = "short"
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("rejects an unknown timezone", func() {
			cfg := validConfig()
			cfg.Clock.Timezone = "Mars/Olympus_Mons"
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("clock config"))
		})

		It("rejects more idle than open connections", func() {
			cfg := validConfig()
			cfg.Database.MaxIdleConns = 50
			Expect(cfg.Validate()).To(HaveOccurred())
		})
	})

	Describe("LoadConfigFromEnv", func() {
		BeforeEach(func() {
			os.Setenv("DATABASE_URL", "postgres://db/calong")
			os.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
			os.Setenv("TZ", "Asia/Jakarta")
			os.Setenv("PIN_MAX_ATTEMPTS", "7")
		})

		AfterEach(func() {
			os.Unsetenv("DATABASE_URL")
			os.Unsetenv("JWT_SECRET")
			os.Unsetenv("TZ")
			os.Unsetenv("PIN_MAX_ATTEMPTS")
		})

		It("reads the environment", func() {
			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Database.Source).To(Equal("postgres://db/calong"))
			Expect(cfg.Clock.Timezone).To(Equal("Asia/Jakarta"))
			Expect(cfg.Clock.PinMaxAttempts).To(Equal(7))
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Describe("Origins", func() {
		It("splits and trims the configured list", func() {
			s := internal.ServerConfig{AllowedOrigins: "https://a.example, https://b.example ,"}
			Expect(s.Origins()).To(Equal([]string{"https://a.example", "https://b.example"}))
		})
	})
})
