// Teach - operator console for a running rover.
//
// Reads command lines from stdin and posts them to the rover's command API.
//
//	LEARN        clear the routine and start recording
//	F:500        forward for 500ms (also B, L, R)
//	REPLAY       play the routine back
//	STOP         all stop
//	.status      print the rover state (console-side helper)
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teslashibe/go-rover/internal/httpc"
)

func main() {
	addr := os.Getenv("ROVER_ADDR")
	if addr == "" {
		addr = "http://localhost:8090"
	}

	fmt.Println("🛶 Rover teach console")
	fmt.Printf("Rover: %s\n", addr)
	fmt.Println("Commands: LEARN, STOP, REPLAY, <F|B|L|R>:<ms>, .status")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == ".status" {
			printStatus(addr)
			continue
		}

		if err := sendCommand(addr, line); err != nil {
			fmt.Printf("✗ %v\n", err)
		}
	}
}

// sendCommand posts one line to the rover and prints the outcome.
func sendCommand(addr, line string) error {
	body, err := json.Marshal(map[string]string{"line": line})
	if err != nil {
		return err
	}

	resp, err := httpc.Post(addr+"/api/command", "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rejected (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	fmt.Printf("✓ %s\n", line)
	return nil
}

// printStatus fetches and prints the rover state.
func printStatus(addr string) {
	resp, err := httpc.Get(addr + "/api/status")
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		return
	}
	defer resp.Body.Close()

	var status struct {
		Drive struct {
			Mode        string `json:"mode"`
			StepCount   int    `json:"step_count"`
			Capacity    int    `json:"capacity"`
			ReplayIndex int    `json:"replay_index"`
			LastCommand string `json:"last_command"`
		} `json:"drive"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Printf("✗ %v\n", err)
		return
	}

	d := status.Drive
	fmt.Printf("mode=%s steps=%d/%d", d.Mode, d.StepCount, d.Capacity)
	if d.Mode == "replay" {
		fmt.Printf(" step=%d", d.ReplayIndex+1)
	}
	if d.LastCommand != "" {
		fmt.Printf(" last=%q", d.LastCommand)
	}
	fmt.Println()
}
