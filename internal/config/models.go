package config

// BlocklistConfig represents the keyword blocklist configuration
type BlocklistConfig struct {
	Mode          string
	Keywords      []string
	FieldsToScan  []string
	RejectMessage string
}

// StateConfig represents the spam-state store configuration
type StateConfig struct {
	Store      string
	SQLitePath string
	MySQLDSN   string
}

// SubmissionsConfig represents the submission persistence configuration
type SubmissionsConfig struct {
	Driver string
	DSN    string
}

// SMTPConfig represents the SMTP transport configuration
type SMTPConfig struct {
	Addr     string
	From     string
	Username string
	Password string
}

// MailConfig represents the outbound notification configuration
type MailConfig struct {
	Transport string
	SMTP      SMTPConfig
	NotifyTo  []string
}

// ServerConfig represents the HTTP host configuration
type ServerConfig struct {
	ListenAddress string
}

// GetBlocklist returns the blocklist configuration
func (c *Config) GetBlocklist() BlocklistConfig {
	return BlocklistConfig{
		Mode:          c.GetString("blocklist.mode"),
		Keywords:      c.GetStringSlice("blocklist.keywords"),
		FieldsToScan:  c.GetStringSlice("blocklist.fields_to_scan"),
		RejectMessage: c.GetString("blocklist.reject_message"),
	}
}

// GetState returns the spam-state store configuration
func (c *Config) GetState() StateConfig {
	return StateConfig{
		Store:      c.GetString("state.store"),
		SQLitePath: c.GetString("state.sqlite_path"),
		MySQLDSN:   c.GetString("state.mysql_dsn"),
	}
}

// GetSubmissions returns the submission persistence configuration
func (c *Config) GetSubmissions() SubmissionsConfig {
	return SubmissionsConfig{
		Driver: c.GetString("submissions.driver"),
		DSN:    c.GetString("submissions.dsn"),
	}
}

// GetMail returns the outbound notification configuration
func (c *Config) GetMail() MailConfig {
	return MailConfig{
		Transport: c.GetString("mail.transport"),
		SMTP: SMTPConfig{
			Addr:     c.GetString("mail.smtp.addr"),
			From:     c.GetString("mail.smtp.from"),
			Username: c.GetString("mail.smtp.username"),
			Password: c.GetString("mail.smtp.password"),
		},
		NotifyTo: c.GetStringSlice("mail.notify_to"),
	}
}

// GetServer returns the HTTP host configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}
