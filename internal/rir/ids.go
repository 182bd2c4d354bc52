package rir

// TypeUID identifies one row of a module's RIR type list.
type TypeUID uint32

// NoTypeUID marks the absence of an assigned RIR type.
const NoTypeUID TypeUID = 0

// BlockID identifies a basic block within one function's lowering.
type BlockID uint32

// NoBlockID marks the absence of a block.
const NoBlockID BlockID = 0
