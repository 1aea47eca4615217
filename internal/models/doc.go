// Package models defines the core domain models for the budget tracker.
//
// # Personal ledger
//
//   - User: Registered account, identified by a UUID string
//   - Category: Income or expense category shared by all users
//   - Transaction: One income or expense entry owned by a user
//   - Budget: Monthly spending limit for one category
//
// # Shared expenses
//
//   - Group: Set of users who share expenses; the creator is the owner
//   - GroupMember: Membership row with a role (admin or member)
//   - Expense: Money one member paid on behalf of the group
//   - ExpenseShare: One member's portion of an expense
//   - Settlement: A direct payment between two members
//
// Money is always decimal.Decimal. Balances and settlement suggestions are
// derived on demand by the calculator package and are never stored.
package models
