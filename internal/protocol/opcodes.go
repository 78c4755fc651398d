package protocol

// Opcodes. The 2-byte opcode follows the length prefix in every TCP
// frame and sits after the sequence number in UDP frames.
const (
	OpLoginRequest       uint16 = 0x0001
	OpLoginResponse      uint16 = 0x0002
	OpCharacterSelect    uint16 = 0x0003
	OpEnterWorld         uint16 = 0x0004
	OpCharacterCreate    uint16 = 0x0005
	OpRegisterRequest    uint16 = 0x0006
	OpRegisterResponse   uint16 = 0x0007
	OpCharacterDelete    uint16 = 0x0008
	OpMovementInput      uint16 = 0x0101
	OpSelectTarget       uint16 = 0x0201
	OpEntityEvent        uint16 = 0x0301 // spawn / despawn / update / damage, s→c
	OpMoveItem           uint16 = 0x0401
	OpChatMessage        uint16 = 0x0501
	OpHeartbeat          uint16 = 0x0601
	OpZoneData           uint16 = 0x0701
	OpChannelSwitch      uint16 = 0x0702
	OpChannelList        uint16 = 0x0703
	OpPositionCorrection uint16 = 0x07FE
	OpErrorResponse      uint16 = 0x07FF
)

// MaxOpcode bounds the dense handler tables built by the gateways.
const MaxOpcode = 0x0800

var opcodeNames = map[uint16]string{
	OpLoginRequest:       "LoginRequest",
	OpLoginResponse:      "LoginResponse",
	OpCharacterSelect:    "CharacterSelect",
	OpEnterWorld:         "EnterWorld",
	OpCharacterCreate:    "CharacterCreate",
	OpRegisterRequest:    "RegisterRequest",
	OpRegisterResponse:   "RegisterResponse",
	OpCharacterDelete:    "CharacterDelete",
	OpMovementInput:      "MovementInput",
	OpSelectTarget:       "SelectTarget",
	OpEntityEvent:        "EntityEvent",
	OpMoveItem:           "MoveItem",
	OpChatMessage:        "ChatMessage",
	OpHeartbeat:          "Heartbeat",
	OpZoneData:           "ZoneData",
	OpChannelSwitch:      "ChannelSwitch",
	OpChannelList:        "ChannelList",
	OpPositionCorrection: "PositionCorrection",
	OpErrorResponse:      "ErrorResponse",
}

// OpcodeName returns a readable name for logging.
func OpcodeName(op uint16) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown"
}
