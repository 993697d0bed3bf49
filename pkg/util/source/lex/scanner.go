// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lex

// Scanner is a function which accepts some prefix of the remaining input (or
// not), returning the number of characters matched.
type Scanner func(items []rune) uint

// Or combines one or more scanners such that the resulting scanner succeeds
// if any of the scanners succeeds.  Observe there is an implicit
// left-to-right order of evaluation.
func Or(scanners ...Scanner) Scanner {
	return func(items []rune) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}
		// fail
		return 0
	}
}

// Sequence matches all the scanners in order, each consuming the input right
// after the previous one ends.
func Sequence(scanners ...Scanner) Scanner {
	return func(items []rune) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			m := scanner(items[n:])
			//
			if m == 0 {
				// fail
				return 0
			}
			//
			n += m
		}
		//
		return n
	}
}

// Unit accepts a given sequence of characters, all of which must match in
// their given order.
func Unit(chars ...rune) Scanner {
	return func(items []rune) uint {
		if len(items) < len(chars) {
			// fail
			return 0
		}
		//
		for i := range chars {
			if items[i] != chars[i] {
				// fail
				return 0
			}
		}
		// success
		return uint(len(chars))
	}
}

// Within accepts any character within a given (inclusive) range.
func Within(lowest rune, highest rune) Scanner {
	return func(items []rune) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		// fail
		return 0
	}
}

// SequenceNullableLast matches all the scanners in order, as Sequence does,
// except that only the final scanner is allowed a match length of zero.  This
// suits rules with an optional tail, such as an identifier (one letter
// followed by any number of further characters).
func SequenceNullableLast(scanners ...Scanner) Scanner {
	return func(items []rune) uint {
		n, i := uint(0), 0
		//
		for i = range scanners {
			if n == uint(len(items)) {
				break
			}
			//
			m := scanners[i](items[n:])
			//
			if m == 0 {
				break
			}
			//
			n += m
		}
		// check we didn't end prematurely
		if i < len(scanners)-1 {
			return 0
		}
		//
		return n
	}
}

// Many matches zero or more of a given item.  Observe that, as a rule on its
// own, a zero-length match means the rule fails.
func Many(acceptor Scanner) Scanner {
	return func(items []rune) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			if n := acceptor(items[index:]); n != 0 {
				index += n
				continue
			}
			//
			break
		}
		// done
		return index
	}
}

// Until matches everything up to (but excluding) a particular character, or
// the end of the input.
func Until(item rune) Scanner {
	return func(items []rune) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			if items[index] == item {
				break
			}
			// continue match
			index = index + 1
		}
		// done
		return index
	}
}

// Eof matches the end of the input stream.
func Eof() Scanner {
	return func(items []rune) uint {
		if len(items) == 0 {
			return 1
		}
		//
		return 0
	}
}
