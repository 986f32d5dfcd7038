/*
 * Copyright 2025 The Asynchronous FIFO Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package afifo

// grayEncode converts a binary value to its reflected-binary (Gray) form.
// Consecutive inputs produce outputs that differ in exactly one bit, which is
// what makes a counter in this form safe to sample from another execution
// context mid-transition.
func grayEncode(n uint64) uint64 {
	return n ^ (n >> 1)
}

// grayDecode inverts grayEncode by folding the running XOR back down.
func grayDecode(g uint64) uint64 {
	g ^= g >> 32
	g ^= g >> 16
	g ^= g >> 8
	g ^= g >> 4
	g ^= g >> 2
	g ^= g >> 1
	return g
}
