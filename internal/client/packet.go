// Package client connects the bot to the game server over a websocket,
// translating packets to and from the core types.
package client

import (
	"encoding/json"
	"fmt"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// PacketType is the numeric packet code on the wire
type PacketType int

// hasPayload is set on every packet type that carries a payload
const hasPayload PacketType = 0x8

const (
	Ping               PacketType = 0x10 | 0x1
	Pong               PacketType = 0x10 | 0x2
	ConnectionAccepted PacketType = 0x10 | 0x3
	ConnectionRejected PacketType = 0x10 | hasPayload | 0x4

	LobbyData        PacketType = 0x20 | hasPayload | 0x1
	LobbyDataRequest PacketType = 0x20 | 0x2

	GameNotStarted PacketType = 0x50 | 0x1
	GameStarting   PacketType = 0x50 | 0x2
	GameStarted    PacketType = 0x50 | 0x3
	GameInProgress PacketType = 0x50 | 0x4
	GameEnd        PacketType = 0x50 | hasPayload | 0x5

	GameState               PacketType = 0x30 | hasPayload | 0x2
	ReadyToReceiveGameState PacketType = 0x30 | 0x5

	TankMovement PacketType = 0x40 | hasPayload | 0x1
	TankRotation PacketType = 0x40 | hasPayload | 0x2
	AbilityUse   PacketType = 0x40 | hasPayload | 0x3
	ResponsePass PacketType = 0x40 | hasPayload | 0x7
	GoTo         PacketType = 0x40 | hasPayload | 0xE
	CaptureZone  PacketType = 0x40 | hasPayload | 0x44

	CustomWarning                  PacketType = 0xE0 | hasPayload | 0x1
	PlayerAlreadyMadeActionWarning PacketType = 0xE0 | 0x2
	ActionIgnoredDueToDeadWarning  PacketType = 0xE0 | 0x3
	SlowResponseWarning            PacketType = 0xE0 | 0x4

	InvalidPacketTypeError  PacketType = 0xF0 | 0x1
	InvalidPacketUsageError PacketType = 0xF0 | 0x2
	InvalidPayloadError     PacketType = 0xF0 | 0x3
	InternalError           PacketType = 0xF0 | 0x7
)

var packetNames = map[PacketType]string{
	Ping:                           "ping",
	Pong:                           "pong",
	ConnectionAccepted:             "connection_accepted",
	ConnectionRejected:             "connection_rejected",
	LobbyData:                      "lobby_data",
	LobbyDataRequest:               "lobby_data_request",
	GameNotStarted:                 "game_not_started",
	GameStarting:                   "game_starting",
	GameStarted:                    "game_started",
	GameInProgress:                 "game_in_progress",
	GameEnd:                        "game_end",
	GameState:                      "game_state",
	ReadyToReceiveGameState:        "ready_to_receive_game_state",
	TankMovement:                   "tank_movement",
	TankRotation:                   "tank_rotation",
	AbilityUse:                     "ability_use",
	ResponsePass:                   "response_pass",
	GoTo:                           "goto",
	CaptureZone:                    "capture_zone",
	CustomWarning:                  "custom_warning",
	PlayerAlreadyMadeActionWarning: "player_already_made_action_warning",
	ActionIgnoredDueToDeadWarning:  "action_ignored_due_to_dead_warning",
	SlowResponseWarning:            "slow_response_warning",
	InvalidPacketTypeError:         "invalid_packet_type_error",
	InvalidPacketUsageError:        "invalid_packet_usage_error",
	InvalidPayloadError:            "invalid_payload_error",
	InternalError:                  "internal_error",
}

func (t PacketType) String() string {
	if name, ok := packetNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PacketType(0x%X)", int(t))
}

// HasPayload reports whether packets of this type carry a payload
func (t PacketType) HasPayload() bool {
	return t&hasPayload != 0
}

// IsError reports whether t belongs to the server error group
func (t PacketType) IsError() bool {
	return t&0xF0 == 0xF0
}

// warningKinds maps warning packets to the advisory kinds the bot understands
var warningKinds = map[PacketType]core.WarningKind{
	CustomWarning:                  core.CustomWarning,
	PlayerAlreadyMadeActionWarning: core.PlayerAlreadyMadeActionWarning,
	ActionIgnoredDueToDeadWarning:  core.ActionIgnoredDueToDeadWarning,
	SlowResponseWarning:            core.SlowResponseWarning,
}

// Packet is the envelope of every websocket message
type Packet struct {
	Type    PacketType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodePacket parses the envelope of a raw message
func DecodePacket(data []byte) (Packet, error) {
	var p Packet
	if err := json.Unmarshal(data, &p); err != nil {
		return Packet{}, fmt.Errorf("decode packet: %w", err)
	}
	return p, nil
}

// controlPacket encodes a payload-less packet
func controlPacket(t PacketType) []byte {
	return []byte(fmt.Sprintf(`{"type":%d}`, int(t)))
}
