package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command []interface{} `json:"command"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
type ipcResponse struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
	Event string      `json:"event"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
	readBufSize  = 4096
)

// sendCommand sends a JSON-IPC command, retrying transient connection errors.
func (e *Engine) sendCommand(command []interface{}) (interface{}, error) {
	if e.socketPath == "" {
		return nil, ErrNotAttached
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(e.socketPath, command)
		if err == nil {
			return result, nil
		}
		if _, ok := err.(*commandError); ok {
			// mpv answered; retrying would not change its mind
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// commandError is an error reported by mpv itself, as opposed to a transport failure.
type commandError struct {
	Command string
	Reason  string
}

func (c *commandError) Error() string {
	return fmt.Sprintf("mpv error: %s: %s", c.Command, c.Reason)
}

// doSendCommand performs a single IPC command attempt.
func doSendCommand(socketPath string, command []interface{}) (interface{}, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	// mpv broadcasts events to every client; skip them until the reply arrives
	reader := bufio.NewReaderSize(conn, readBufSize)
	var resp ipcResponse
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		resp = ipcResponse{}
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		if resp.Event == "" {
			break
		}
	}

	if resp.Error != "" && resp.Error != "success" {
		return nil, &commandError{Command: fmt.Sprint(command[0]), Reason: resp.Error}
	}

	return resp.Data, nil
}

func (e *Engine) set(property string, value interface{}) error {
	_, err := e.sendCommand([]interface{}{"set_property", property, value})
	return err
}
