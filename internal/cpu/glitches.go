package cpu

// doHALTBug is called when HALT is executed with the IME
// disabled and an interrupt pending. The CPU does not halt;
// it executes the byte following HALT without advancing PC
// past it, so that byte is read again afterwards.
func (c *CPU) doHALTBug() {
	// read the next instruction
	instr := c.readOperand()

	// decrement the PC to execute the instruction again
	c.PC--

	// execute the instruction
	c.decode(instr)
}
