package email

import (
	"errors"
	"fmt"
)

// SMTPConfig - параметры подключения к почтовому серверу
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	// UseTLS на 465 порту включает неявный TLS
	UseTLS bool
}

func (c *SMTPConfig) Validate() error {
	switch {
	case c.Host == "":
		return errors.New("smtp host is empty")
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("smtp port %d is out of range", c.Port)
	case c.FromEmail == "":
		return errors.New("sender address is empty")
	}
	return nil
}
