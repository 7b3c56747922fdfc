package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/songbird-voice/songbird-core/core/audio"
)

const hardwareSampleRate = 48000

// Client is a blocking-stream backend over the default PortAudio devices.
// It is the simpler of the two backends: one duplex stream, a read loop for
// capture, and synchronous writes for playback.
type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []byte
	consumed      int

	in  []int16
	out []int16

	mu            sync.Mutex
	cancelCapture context.CancelFunc
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, hardwareSampleRate, bufferSize, in, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	if c.cancelCapture != nil {
		c.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancelCapture = cancel
	c.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := c.stream.Read(); err != nil {
					continue
				}

				audioBuffer := bytes.Buffer{}
				binary.Write(&audioBuffer, binary.LittleEndian, c.in)
				onAudio(audioBuffer.Bytes())
			}
		}
	}()
	return nil
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelCapture != nil {
		c.cancelCapture()
		c.cancelCapture = nil
	}
	return nil
}

func (c *Client) Close() {
	_ = c.StopCapture()
	c.stream.Close()
	portaudio.Terminate()
}

func (c *Client) SendAudio(audio []byte) error {
	bufferSize := c.bufferSize * 2

	c.mu.Lock()
	defer c.mu.Unlock()

	audio = append(c.leftoverAudio, audio...)
	for i := range len(audio)/bufferSize + 1 {
		if (i+1)*bufferSize > len(audio) {
			c.leftoverAudio = make([]byte, len(audio)-i*bufferSize)
			copy(c.leftoverAudio, audio[i*bufferSize:])
			break
		}

		binary.Read(bytes.NewBuffer(audio[i*bufferSize:(i+1)*bufferSize]), binary.LittleEndian, c.out)
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
		c.consumed += bufferSize
	}

	return nil
}

func (c *Client) ClearBuffer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftoverAudio = make([]byte, 0)
	c.consumed = 0
}

// PlaybackPosition reports bytes handed to the device since the last
// ClearBuffer. Writes block until the device accepts them, so this is a
// close approximation of actual playback.
func (c *Client) PlaybackPosition() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consumed
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: hardwareSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
