package modbus

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Client is a minimal Modbus TCP master used to push register writes to a
// live server instead of a shared memory set.
type Client struct {
	address       string
	conn          net.Conn
	mu            sync.Mutex
	transactionID uint16
	unitID        uint8
	timeout       time.Duration
	connected     bool
}

func NewClient(address string, unitID uint8, timeout time.Duration) *Client {
	return &Client{
		address: address,
		unitID:  unitID,
		timeout: timeout,
	}
}

// Connect stellt die TCP-Verbindung her
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	conn, err := net.DialTimeout("tcp", c.address, c.timeout)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	c.conn = conn
	c.connected = true

	return nil
}

// Close schließt die Verbindung
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	err := c.conn.Close()
	c.connected = false
	c.conn = nil

	return err
}

// send sendet ein Frame und wartet auf die Response
func (c *Client) send(ctx context.Context, request *Frame) (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, fmt.Errorf("not connected")
	}

	// Unique Transaction ID
	c.transactionID++
	request.TransactionID = c.transactionID

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := c.conn.Write(request.Encode()); err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	buffer := make([]byte, 260) // Max Modbus TCP Frame
	n, err := c.conn.Read(buffer)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	response, err := DecodeFrame(buffer[:n])
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	if response.TransactionID != request.TransactionID {
		return nil, fmt.Errorf("transaction ID mismatch: expected %d, got %d",
			request.TransactionID, response.TransactionID)
	}

	if err := response.CheckException(request); err != nil {
		return nil, err
	}

	return response, nil
}

// WriteSingleCoil schreibt einen Coil (Function Code 0x05)
func (c *Client) WriteSingleCoil(ctx context.Context, addr uint16, on bool) error {
	_, err := c.send(ctx, WriteSingleCoilRequest(c.unitID, addr, on))
	return err
}

// WriteSingleRegister schreibt ein Holding Register (Function Code 0x06)
func (c *Client) WriteSingleRegister(ctx context.Context, addr uint16, value uint16) error {
	_, err := c.send(ctx, WriteSingleRegisterRequest(c.unitID, addr, value))
	return err
}
