package directory

// FindFreeRun locates a contiguous run of count consecutive slots available
// for a new entry's LFN group + 8.3 record, per spec.md §4.5 and the
// directory slot state machine: DELETED runs are preferred over consuming
// the VACANT tail, since reusing deleted slots keeps the directory from
// growing when it doesn't need to.
//
// A VACANT slot also marks the end of the directory, so once one is found
// every slot after it (to the end of payload) is available as well.
func FindFreeRun(payload []byte, count int) (offset int, ok bool) {
	numSlots := len(payload) / RecordSize

	// Prefer a run of entirely DELETED slots.
	runStart, runLen := -1, 0
	for i := 0; i < numSlots; i++ {
		slot := payload[i*RecordSize : i*RecordSize+RecordSize]
		if classifySlot(slot) == SlotDeleted {
			if runLen == 0 {
				runStart = i
			}
			runLen++
			if runLen == count {
				return runStart * RecordSize, true
			}
		} else {
			runLen = 0
		}
		if classifySlot(slot) == SlotVacant {
			// Everything from here to the end is available.
			if numSlots-i >= count {
				return i * RecordSize, true
			}
			return 0, false
		}
	}
	return 0, false
}

// WriteGroup writes slots into payload starting at offset. The caller must
// have already ensured payload is large enough (via FindFreeRun, possibly
// after extending the directory's cluster chain).
func WriteGroup(payload []byte, offset int, slots [][]byte) {
	for i, slot := range slots {
		copy(payload[offset+i*RecordSize:offset+(i+1)*RecordSize], slot)
	}
}

// DeleteGroup marks every slot from groupOffset through recordOffset
// (inclusive) as deleted, per spec.md §4.7's Entry.delete(): the 8.3 record
// and every immediately preceding LFN slot.
func DeleteGroup(payload []byte, groupOffset, recordOffset int) {
	for off := groupOffset; off <= recordOffset; off += RecordSize {
		MarkDeleted(payload[off : off+RecordSize])
	}
}
