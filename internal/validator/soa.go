// SOA Record Validation
//
// SOA records are created and maintained with the zone. The value is not parsed;
// a manual edit is allowed but always flagged.

package validator

func (c *recordCheck) validateSOARecord() {
	c.warn("SOA records are auto-managed; manual modification is not recommended")
}
