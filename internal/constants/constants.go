/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package constants

// Withdrawal wizard statuses and the sentinel used in session data
const (
	WithdrawnStatus = "WITHDRAWN"
)

// Audit event names
const (
	AuditPageViewEvent         = "PAGE_VIEW"
	AuditCreateReferralEvent   = "CREATE_REFERRAL"
	AuditSubmitReferralEvent   = "SUBMIT_REFERRAL"
	AuditWithdrawReferralEvent = "WITHDRAW_REFERRAL"
	AuditDeleteReferralEvent   = "DELETE_DRAFT_REFERRAL"
	AuditUpdateStatusEvent     = "UPDATE_REFERRAL_STATUS"
	AuditSignInEvent           = "SIGN_IN"
)

// Context keys set by middleware
const (
	CorrelationIDKey = "correlationID"
	LoggerKey        = "logger"
	SessionKey       = "session"
	UserKey          = "user"
)

// Headers
const (
	CorrelationIDHeader = "X-Correlation-ID"
)

// Token cache
const (
	AnonymousTokenKey = "%ANONYMOUS%"
	SystemTokenPrefix = "systemToken:"
	SessionKeyPrefix  = "sess:"
	TokenExpiryBuffer = 60 // seconds subtracted from expires_in
)

// Form limits
const (
	AdditionalInformationMaxLength = 4000
	WithdrawalReasonMaxLength      = 100
	EarliestProgrammeYear          = 1990
	OtherCourseValue               = "Other"
	DefaultPageSize                = 15
)

// Flash keys
const (
	FlashSuccessMessage = "successMessage"
	FlashErrors         = "errors:"
	FlashValues         = "values:"
)
