package mail

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"membership-server/internal/config"
)

// EmailTemplateService 이메일 템플릿 생성 서비스
type EmailTemplateService struct {
	appURL       string // 앱 기본 URL (온보딩 링크 생성에 사용)
	supportEmail string // 지원 이메일
	serviceName  string // 서비스 이름
}

// NewEmailTemplateService 이메일 템플릿 서비스 생성
func NewEmailTemplateService(appURL, supportEmail, serviceName string) *EmailTemplateService {
	return &EmailTemplateService{
		appURL:       appURL,
		supportEmail: supportEmail,
		serviceName:  serviceName,
	}
}

// wrap 공통 레이아웃으로 본문을 감싼다.
func (s *EmailTemplateService) wrap(title, inner string) string {
	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" lang="en">
<head>
	<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>%s</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, Helvetica, sans-serif; background-color: #f7f9fc;">
	<table border="0" cellpadding="0" cellspacing="0" width="100%%" style="border-collapse: collapse;">
		<tr>
			<td style="padding: 40px 0;">
				<!-- 헤더 -->
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #1e5631; border-radius: 8px 8px 0 0;">
					<tr>
						<td align="center" style="padding: 30px 0; color: #ffffff;">
							<h1 style="margin: 0; font-size: 26px; font-weight: 700;">%s</h1>
						</td>
					</tr>
				</table>

				<!-- 본문 -->
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #ffffff; box-shadow: 0 4px 15px rgba(0, 0, 0, 0.08);">
					<tr>
						<td style="padding: 40px 30px; color: #333333; font-size: 16px; line-height: 1.6;">
							%s
						</td>
					</tr>
				</table>

				<!-- 푸터 -->
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #f0f2fa; border-radius: 0 0 8px 8px;">
					<tr>
						<td align="center" style="padding: 20px; color: #666666; font-size: 12px; line-height: 1.5;">
							<p style="margin: 0; margin-bottom: 10px;">© %d %s. All rights reserved.</p>
							<p style="margin: 0; margin-bottom: 10px;">Questions? Contact <a href="mailto:%s" style="color: #1e5631; text-decoration: none;">%s</a>.</p>
							<p style="margin: 0;">This mailbox is not monitored. Please do not reply.</p>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>`, title, title, inner, time.Now().Year(), s.serviceName, s.supportEmail, s.supportEmail)
}

// codeBlock OTP 코드 표시 블록
func codeBlock(code string) string {
	return fmt.Sprintf(`<table border="0" cellpadding="0" cellspacing="0" align="center" style="border-collapse: collapse; margin: 20px auto;">
	<tr>
		<td align="center" style="background-color: #eef7f0; border: 1px solid #cfe8d5; border-radius: 8px; padding: 15px 40px;">
			<span style="color: #1e5631; font-size: 24px; font-weight: bold; letter-spacing: 2px;">%s</span>
		</td>
	</tr>
</table>`, code)
}

// formatOtp 6자리 코드를 XXX-XXX 형식으로 표기
func formatOtp(code string) string {
	if len(code) != 6 {
		config.AppConfig.Logger.Error("잘못된 형식의 OTP 코드",
			zap.Int("length", len(code)),
		)
		return code
	}
	return fmt.Sprintf("%s-%s", code[:3], code[3:])
}

// GenerateWelcomeEmailHTML 가입 환영 + 이메일 인증 OTP 템플릿 생성
func (s *EmailTemplateService) GenerateWelcomeEmailHTML(fullName, code string) string {
	inner := fmt.Sprintf(`<p style="margin-top: 0;">Hello <strong style="color: #1e5631;">%s</strong>,</p>
<p>Welcome to the scouting family! To complete your registration, enter the verification code below:</p>
%s
<p>This code expires in 5 minutes.</p>
<p>If you did not create an account, you can safely ignore this email.</p>
<p style="margin-bottom: 0;">Yours in scouting,<br/><strong style="color: #1e5631;">The %s Team</strong></p>`,
		fullName, codeBlock(formatOtp(code)), s.serviceName)

	return s.wrap("Welcome!", inner)
}

// GenerateMfaEmailHTML 로그인 2단계 인증 코드 템플릿 생성
func (s *EmailTemplateService) GenerateMfaEmailHTML(fullName, code string) string {
	inner := fmt.Sprintf(`<p style="margin-top: 0;">Hello <strong style="color: #1e5631;">%s</strong>,</p>
<p>Use the code below to finish signing in:</p>
%s
<p>This code expires in 10 minutes. If you did not try to sign in, please change your password immediately.</p>
<p style="margin-bottom: 0;">Yours in scouting,<br/><strong style="color: #1e5631;">The %s Team</strong></p>`,
		fullName, codeBlock(formatOtp(code)), s.serviceName)

	return s.wrap("Sign-in Verification", inner)
}

// GenerateResetEmailHTML 비밀번호 재설정 코드 템플릿 생성
func (s *EmailTemplateService) GenerateResetEmailHTML(fullName, code string) string {
	inner := fmt.Sprintf(`<p style="margin-top: 0;">Hello <strong style="color: #1e5631;">%s</strong>,</p>
<p>We received a request to reset your password. Enter the code below to continue:</p>
%s
<p>This code expires in 10 minutes.</p>
<p>If you did not request a password reset, you can safely ignore this email.</p>
<p style="margin-bottom: 0;">Yours in scouting,<br/><strong style="color: #1e5631;">The %s Team</strong></p>`,
		fullName, codeBlock(formatOtp(code)), s.serviceName)

	return s.wrap("Password Reset", inner)
}

// GenerateInvitationEmailHTML 관리자 초대 템플릿 생성
func (s *EmailTemplateService) GenerateInvitationEmailHTML(fullName, roleName, council, token string) string {
	link := fmt.Sprintf("%s/onboarding?invite=%s", s.appURL, token)

	inner := fmt.Sprintf(`<p style="margin-top: 0;">Hello <strong style="color: #1e5631;">%s</strong>,</p>
<p>You have been invited to join %s as <strong>%s</strong> for <strong>%s</strong>.</p>
<table border="0" cellpadding="0" cellspacing="0" align="center" style="border-collapse: separate; border-radius: 4px; margin: 25px auto;">
	<tr>
		<td align="center" style="background-color: #1e5631; border-radius: 4px;">
			<a href="%s" target="_blank" style="display: inline-block; color: #ffffff; font-size: 16px; font-weight: bold; text-decoration: none; padding: 12px 30px;">Accept Invitation</a>
		</td>
	</tr>
</table>
<p>This invitation expires in 30 days. Register with this email address to take up your role.</p>
<p style="margin-bottom: 0;">Yours in scouting,<br/><strong style="color: #1e5631;">The %s Team</strong></p>`,
		fullName, s.serviceName, roleName, council, link, s.serviceName)

	return s.wrap("You Are Invited", inner)
}

// GenerateRoleChangeEmailHTML 역할 변경 안내 템플릿 생성
func (s *EmailTemplateService) GenerateRoleChangeEmailHTML(fullName, roleName, changedBy string) string {
	inner := fmt.Sprintf(`<p style="margin-top: 0;">Hello <strong style="color: #1e5631;">%s</strong>,</p>
<p>Your role has been changed to <strong>%s</strong> by %s.</p>
<p>If you believe this is a mistake, please contact your council administrator.</p>
<p style="margin-bottom: 0;">Yours in scouting,<br/><strong style="color: #1e5631;">The %s Team</strong></p>`,
		fullName, roleName, changedBy, s.serviceName)

	return s.wrap("Role Update", inner)
}
