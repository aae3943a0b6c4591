package command

import (
	"fmt"
	"net/http"
	"os"

	"github.com/pixil98/go-adventure/internal/listener"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
	"golang.org/x/crypto/ssh"
)

type ListenerType int

const (
	ListenerTypeHttp ListenerType = iota
	ListenerTypeTelnet
	ListenerTypeSsh
)

func (lt *ListenerType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "http":
		*lt = ListenerTypeHttp
	case "telnet":
		*lt = ListenerTypeTelnet
	case "ssh":
		*lt = ListenerTypeSsh
	default:
		return fmt.Errorf("unknown listener type: %s", text)
	}
	return nil
}

type ListenerConfig struct {
	Protocol    ListenerType `json:"protocol"`
	Port        uint16       `json:"port"`
	HostKeyPath string       `json:"host_key_path,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	if cl.Protocol == ListenerTypeSsh && cl.HostKeyPath == "" {
		el.Add(fmt.Errorf("host_key_path is required for ssh listeners"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(handler http.Handler, cm *listener.ConnectionManager) (service.Worker, error) {
	switch cl.Protocol {
	case ListenerTypeHttp:
		return listener.NewHttpListener(cl.Port, handler), nil
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.Port, cm), nil
	case ListenerTypeSsh:
		hostKey, err := loadHostKey(cl.HostKeyPath)
		if err != nil {
			return nil, err
		}
		return listener.NewSshListener(cl.Port, cm, hostKey), nil
	default:
		return nil, fmt.Errorf("unknown listener protocol")
	}
}

func loadHostKey(path string) (ssh.Signer, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading host key %q: %w", path, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("parsing host key %q: %w", path, err)
	}

	return signer, nil
}
